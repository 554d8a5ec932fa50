package mpris

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/genricoloni/mediabridge/internal/mpris/mocks"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestConnector_Connect(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockBusConn(ctrl)
	expectRegistration(conn)

	c := &Connector{
		logger:    zap.NewNop(),
		opts:      testOpts,
		available: func() bool { return true },
		dial:      func() (BusConn, error) { return conn, nil },
	}

	assert.True(t, c.Available())
	adapter, err := c.Connect()
	require.NoError(t, err)
	assert.NotNil(t, adapter)
}

func TestConnector_ConnectDialError(t *testing.T) {
	c := &Connector{
		logger: zap.NewNop(),
		opts:   testOpts,
		dial:   func() (BusConn, error) { return nil, errors.New("no bus") },
	}

	adapter, err := c.Connect()
	assert.Nil(t, adapter)
	assert.ErrorContains(t, err, "no bus")
}

func TestConnector_ConnectNameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockBusConn(ctrl)
	conn.EXPECT().Export(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	conn.EXPECT().RequestName(gomock.Any(), gomock.Any()).Return(dbus.RequestNameReplyInQueue, nil)
	conn.EXPECT().Close().Return(nil)

	c := &Connector{
		logger: zap.NewNop(),
		opts:   testOpts,
		dial:   func() (BusConn, error) { return conn, nil },
	}

	adapter, err := c.Connect()
	assert.Nil(t, adapter)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestSessionBusAvailable(t *testing.T) {
	if runtime.GOOS != "linux" {
		assert.False(t, sessionBusAvailable())
		return
	}

	runtimeDir := t.TempDir()

	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.False(t, sessionBusAvailable(), "empty environment")

	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)
	assert.False(t, sessionBusAvailable(), "runtime dir without a bus socket")

	require.NoError(t, os.WriteFile(filepath.Join(runtimeDir, "bus"), nil, 0o600))
	assert.True(t, sessionBusAvailable(), "bus socket in runtime dir")

	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/run/user/1000/bus")
	assert.True(t, sessionBusAvailable(), "explicit address")
}
