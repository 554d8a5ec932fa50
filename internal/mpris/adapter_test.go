package mpris

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/genricoloni/mediabridge/internal/mpris/mocks"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var testOpts = Options{ServiceName: "mediabridge", Identity: "Media Bridge", DesktopEntry: "mediabridge"}

// changedCapture records the PropertiesChanged payload passed to Emit.
type changedCapture struct {
	got map[string]dbus.Variant
}

func (c *changedCapture) Matches(x any) bool {
	m, ok := x.(map[string]dbus.Variant)
	if ok {
		c.got = m
	}
	return ok
}

func (c *changedCapture) String() string { return "is a PropertiesChanged map" }

func expectRegistration(m *mocks.MockBusConn) {
	m.EXPECT().Export(gomock.Any(), ObjectPath, gomock.Any()).Return(nil).Times(4)
	m.EXPECT().RequestName("org.mpris.MediaPlayer2.mediabridge", dbus.NameFlagDoNotQueue).
		Return(dbus.RequestNameReplyPrimaryOwner, nil)
}

func newTestAdapter(t *testing.T) (*Adapter, *mocks.MockBusConn) {
	t.Helper()
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockBusConn(ctrl)
	expectRegistration(conn)

	a, err := NewAdapter(zap.NewNop(), conn, testOpts)
	require.NoError(t, err)
	return a, conn
}

func TestNewAdapter_Failures(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockBusConn)
		wantErr   error
	}{
		{
			name: "Name Already Owned",
			setupMock: func(m *mocks.MockBusConn) {
				m.EXPECT().Export(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)
				m.EXPECT().RequestName(gomock.Any(), gomock.Any()).Return(dbus.RequestNameReplyExists, nil)
				m.EXPECT().Close().Return(nil)
			},
			wantErr: ErrNameTaken,
		},
		{
			name: "Request Name Error",
			setupMock: func(m *mocks.MockBusConn) {
				m.EXPECT().Export(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)
				m.EXPECT().RequestName(gomock.Any(), gomock.Any()).Return(dbus.RequestNameReply(0), errors.New("bus gone"))
				m.EXPECT().Close().Return(nil)
			},
		},
		{
			name: "Export Error",
			setupMock: func(m *mocks.MockBusConn) {
				m.EXPECT().Export(gomock.Any(), gomock.Any(), RootInterface).Return(errors.New("export failed"))
				m.EXPECT().Close().Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			conn := mocks.NewMockBusConn(ctrl)
			tt.setupMock(conn)

			a, err := NewAdapter(zap.NewNop(), conn, testOpts)
			require.Error(t, err)
			assert.Nil(t, a)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAdapter_Publish(t *testing.T) {
	a, conn := newTestAdapter(t)

	capture := &changedCapture{}
	conn.EXPECT().Emit(ObjectPath, "org.freedesktop.DBus.Properties.PropertiesChanged", PlayerIface, capture, []string{}).
		Return(nil).Times(1)

	pos := int64(42_000_000)
	now := time.Now()
	err := a.Publish(domain.ServiceState{
		Status: domain.StatusPlaying,
		Metadata: domain.NormalizedMetadata{
			TrackID:      "/org/mediabridge/track/abc",
			LengthMicros: 3_500_000,
			ArtURI:       "file:///tmp/a.jpg",
			Title:        "Song",
			Album:        "Album",
			Artists:      []string{"A", "B"},
		},
		PositionMicros: &pos,
		UpdatedAt:      now,
	})
	require.NoError(t, err)

	require.Len(t, capture.got, 2, "exactly Metadata and PlaybackStatus change together")
	assert.Equal(t, "Playing", capture.got["PlaybackStatus"].Value())

	meta, ok := capture.got["Metadata"].Value().(map[string]dbus.Variant)
	require.True(t, ok)
	assert.Equal(t, dbus.ObjectPath("/org/mediabridge/track/abc"), meta["mpris:trackid"].Value())
	assert.Equal(t, int64(3_500_000), meta["mpris:length"].Value())
	assert.Equal(t, "file:///tmp/a.jpg", meta["mpris:artUrl"].Value())
	assert.Equal(t, []string{"A", "B"}, meta["xesam:artist"].Value())

	props := &propertiesObject{a: a}
	v, dErr := props.Get(PlayerIface, "Position")
	require.Nil(t, dErr)
	assert.Equal(t, pos, v.Value())
}

func TestAdapter_Publish_KeepsPositionWhenAbsent(t *testing.T) {
	a, conn := newTestAdapter(t)
	conn.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	require.NoError(t, a.UpdatePosition(7_000_000, time.Now()))
	require.NoError(t, a.Publish(domain.ServiceState{Status: domain.StatusPaused}))

	props := &propertiesObject{a: a}
	v, dErr := props.Get(PlayerIface, "Position")
	require.Nil(t, dErr)
	assert.Equal(t, int64(7_000_000), v.Value())

	meta, dErr := props.Get(PlayerIface, "Metadata")
	require.Nil(t, dErr)
	m := meta.Value().(map[string]dbus.Variant)
	assert.Equal(t, noTrack, m["mpris:trackid"].Value())
	_, hasArt := m["mpris:artUrl"]
	assert.False(t, hasArt, "empty art URI is omitted")
}

func TestAdapter_Publish_EmitError(t *testing.T) {
	a, conn := newTestAdapter(t)
	conn.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection closed"))

	err := a.Publish(domain.ServiceState{Status: domain.StatusPlaying})
	assert.ErrorContains(t, err, "connection closed")
}

func TestAdapter_Commands(t *testing.T) {
	tests := []struct {
		name     string
		call     func(root *rootObject, player *playerObject) *dbus.Error
		expected domain.Command
	}{
		{"Play", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Play() }, domain.Command{Name: domain.CmdPlay}},
		{"Pause", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Pause() }, domain.Command{Name: domain.CmdPause}},
		{"Stop", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Stop() }, domain.Command{Name: domain.CmdStop}},
		{"Next", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Next() }, domain.Command{Name: domain.CmdNext}},
		{"Previous", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Previous() }, domain.Command{Name: domain.CmdPrevious}},
		{"PlayPause While Stopped", func(_ *rootObject, p *playerObject) *dbus.Error { return p.PlayPause() }, domain.Command{Name: domain.CmdPlay}},
		{"Seek Forward", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Seek(2_500_000) }, domain.Command{Name: domain.CmdSeek, Value: 2.5}},
		{"Seek Backward", func(_ *rootObject, p *playerObject) *dbus.Error { return p.Seek(-1_000_000) }, domain.Command{Name: domain.CmdSeek, Value: -1}},
		{"Set Position", func(_ *rootObject, p *playerObject) *dbus.Error { return p.SetPosition(noTrack, 90_000_000) }, domain.Command{Name: domain.CmdPosition, Value: 90}},
		{"Raise", func(r *rootObject, _ *playerObject) *dbus.Error { return r.Raise() }, domain.Command{Name: domain.CmdRaise}},
		{"Quit", func(r *rootObject, _ *playerObject) *dbus.Error { return r.Quit() }, domain.Command{Name: domain.CmdQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAdapter(t)

			dErr := tt.call(&rootObject{a: a}, &playerObject{a: a})
			require.Nil(t, dErr)

			select {
			case got := <-a.Commands():
				assert.Equal(t, tt.expected, got)
			default:
				t.Fatal("expected a command")
			}
		})
	}
}

func TestAdapter_PlayPauseWhilePlaying(t *testing.T) {
	a, conn := newTestAdapter(t)
	conn.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, a.Publish(domain.ServiceState{Status: domain.StatusPlaying}))

	require.Nil(t, (&playerObject{a: a}).PlayPause())
	assert.Equal(t, domain.Command{Name: domain.CmdPause}, <-a.Commands())
}

func TestAdapter_SetPositionIgnored(t *testing.T) {
	a, conn := newTestAdapter(t)
	conn.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, a.Publish(domain.ServiceState{
		Status:   domain.StatusPlaying,
		Metadata: domain.NormalizedMetadata{TrackID: "/org/mediabridge/track/current"},
	}))

	player := &playerObject{a: a}
	require.Nil(t, player.SetPosition("/org/mediabridge/track/stale", 1_000_000))
	require.Nil(t, player.SetPosition("/org/mediabridge/track/current", -5))

	select {
	case cmd := <-a.Commands():
		t.Fatalf("unexpected command %+v", cmd)
	default:
	}

	require.Nil(t, player.SetPosition("/org/mediabridge/track/current", 0))
	assert.Equal(t, domain.Command{Name: domain.CmdPosition, Value: 0}, <-a.Commands())
}

func TestAdapter_OpenUriUnsupported(t *testing.T) {
	a, _ := newTestAdapter(t)
	assert.NotNil(t, (&playerObject{a: a}).OpenUri("https://x/a.mp3"))
}

func TestAdapter_Properties(t *testing.T) {
	a, _ := newTestAdapter(t)
	props := &propertiesObject{a: a}

	v, dErr := props.Get(RootInterface, "Identity")
	require.Nil(t, dErr)
	assert.Equal(t, "Media Bridge", v.Value())

	v, dErr = props.Get(RootInterface, "SupportedUriSchemes")
	require.Nil(t, dErr)
	assert.Equal(t, []string{"http", "https"}, v.Value())

	all, dErr := props.GetAll(PlayerIface)
	require.Nil(t, dErr)
	for _, flag := range []string{"CanGoNext", "CanGoPrevious", "CanPlay", "CanPause", "CanSeek", "CanControl"} {
		assert.Equal(t, true, all[flag].Value(), flag)
	}
	assert.Equal(t, 1.0, all["Rate"].Value())
	assert.Equal(t, "Stopped", all["PlaybackStatus"].Value())

	_, dErr = props.Get("org.example.Nope", "Identity")
	assert.Equal(t, prop.ErrIfaceNotFound, dErr)

	_, dErr = props.Get(PlayerIface, "Nope")
	assert.Equal(t, prop.ErrPropNotFound, dErr)

	assert.Equal(t, prop.ErrReadOnly, props.Set(PlayerIface, "Volume", dbus.MakeVariant(0.5)))
	assert.Equal(t, prop.ErrPropNotFound, props.Set(PlayerIface, "Nope", dbus.MakeVariant(0.5)))
}

func TestAdapter_Close(t *testing.T) {
	a, conn := newTestAdapter(t)
	conn.EXPECT().ReleaseName("org.mpris.MediaPlayer2.mediabridge").Return(dbus.ReleaseNameReplyReleased, nil).Times(1)
	conn.EXPECT().Close().Return(errors.New("already closed")).Times(1)

	err := a.Close()
	assert.ErrorContains(t, err, "already closed")
	assert.Equal(t, err, a.Close(), "second close returns the first result")

	_, open := <-a.Commands()
	assert.False(t, open, "command channel is closed")

	// Bus handlers racing with teardown must not panic.
	assert.Nil(t, (&playerObject{a: a}).Play())
	assert.Error(t, a.Publish(domain.ServiceState{}))
	assert.Error(t, a.UpdatePosition(1, time.Now()))
}

func TestAdapter_Done(t *testing.T) {
	a, conn := newTestAdapter(t)
	ctx, cancel := context.WithCancel(context.Background())
	conn.EXPECT().Context().Return(ctx).AnyTimes()

	select {
	case <-a.Done():
		t.Fatal("done before the connection was lost")
	default:
	}

	cancel()
	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after the connection was lost")
	}
}

func TestAdapter_CommandsDoNotBlock(t *testing.T) {
	a, _ := newTestAdapter(t)
	player := &playerObject{a: a}

	done := make(chan struct{})
	go func() {
		for i := 0; i < commandBuffer*3; i++ {
			_ = player.Next()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bus handler blocked on a full command channel")
	}
	assert.Len(t, a.commands, commandBuffer)
}
