package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/mediabridge/internal/config"
	"github.com/genricoloni/mediabridge/internal/coordinator"
	"github.com/genricoloni/mediabridge/internal/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// testConfig loads a configuration isolated from the host: no session bus,
// an ephemeral port and a temporary cache directory.
func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("MEDIABRIDGE_CONFIG", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("notifications = false\nlog_level = \"error\"\n"), 0o644))

	cfg, err := config.Load(config.Overrides{
		ConfigFile: path,
		ListenAddr: "127.0.0.1:0",
		CacheDir:   filepath.Join(dir, "artwork"),
	})
	require.NoError(t, err)
	return cfg
}

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(AppOptions(testConfig(t)))
	if err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	logger.Info("Test logger initialization")
}

// TestEndToEndStartup starts the bridge without a session bus: the UI channel
// comes up and the media-control service stays degraded.
func TestEndToEndStartup(t *testing.T) {
	var (
		server *ipc.Server
		coord  *coordinator.Coordinator
	)
	app := fx.New(
		AppOptions(testConfig(t)),
		fx.NopLogger,
		fx.Populate(&server, &coord),
	)
	require.NoError(t, app.Err())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}
	assert.Equal(t, coordinator.Degraded, coord.State())

	client, err := ipc.Dial(ctx, zap.NewNop(), server.Addr())
	require.NoError(t, err)
	require.NoError(t, client.SendPlaybackInfo([]byte(`{"title":"Song","status":"Playing"}`)))
	require.NoError(t, client.SendPosition(3.5))

	if err := app.Stop(ctx); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
	_ = client.Close()
}

func TestSendPosition(t *testing.T) {
	cfg := testConfig(t)
	server := ipc.NewServer(zap.NewNop(), cfg)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() { _ = server.Stop(context.Background()) })

	root := newRootCmd()
	root.SetArgs([]string{"send", "position", "12.5", "--listen", server.Addr(), "--config", cfg.Source()})
	require.NoError(t, root.Execute())

	select {
	case update := <-server.PositionUpdates():
		assert.Equal(t, 12.5, update.Seconds)
	case <-time.After(2 * time.Second):
		t.Fatal("position update not received")
	}
}

func TestSendPlaybackInfoFromStdin(t *testing.T) {
	cfg := testConfig(t)
	server := ipc.NewServer(zap.NewNop(), cfg)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() { _ = server.Stop(context.Background()) })

	root := newRootCmd()
	root.SetIn(strings.NewReader(`{"title":"Stdin Song","artist":["A"],"status":"Paused"}`))
	root.SetArgs([]string{"send", "playback-info", "-", "--listen", server.Addr(), "--config", cfg.Source()})
	require.NoError(t, root.Execute())

	select {
	case info := <-server.PlaybackInfo():
		assert.Equal(t, "Stdin Song", info.Title)
		assert.Equal(t, "Paused", info.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("playback info not received")
	}
}

func TestSendArgumentErrors(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad position", []string{"send", "position", "soon"}},
		{"bad json", []string{"send", "playback-info", "{not json"}},
		{"missing argument", []string{"send", "position"}},
		{"nobody listening", []string{"send", "position", "1", "--listen", "127.0.0.1:1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append(tt.args, "--config", cfg.Source()))
			assert.Error(t, root.Execute())
		})
	}
}

func TestReadPayload(t *testing.T) {
	payload, err := readPayload(strings.NewReader(`{"a":1}`), "-")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(payload))

	payload, err = readPayload(nil, `{"b":2}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(payload))

	_, err = readPayload(strings.NewReader("nope"), "-")
	assert.Error(t, err)
}
