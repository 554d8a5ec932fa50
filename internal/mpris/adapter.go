// Package mpris exposes the bridged player as an MPRIS2 service on the session bus.
package mpris

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	ObjectPath dbus.ObjectPath = "/org/mpris/MediaPlayer2"

	BusNamePrefix  = "org.mpris.MediaPlayer2."
	RootInterface  = "org.mpris.MediaPlayer2"
	PlayerIface    = "org.mpris.MediaPlayer2.Player"
	propertiesName = "org.freedesktop.DBus.Properties"

	// noTrack is the MPRIS sentinel for "no current track"
	noTrack dbus.ObjectPath = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

	commandBuffer = 16
)

// ErrNameTaken is returned when another process already owns the service name.
var ErrNameTaken = errors.New("bus name already taken")

var (
	supportedURISchemes = []string{"http", "https"}
	supportedMimeTypes  = []string{"audio/mpeg", "audio/flac", "audio/mp3", "audio/wav", "audio/ogg"}
)

// Options names the service on the bus.
type Options struct {
	// ServiceName is appended to org.mpris.MediaPlayer2.
	ServiceName  string
	Identity     string
	DesktopEntry string
}

// BusName returns the well-known name the service is registered under.
func (o Options) BusName() string {
	return BusNamePrefix + o.ServiceName
}

// Adapter is the MPRIS2 service. It owns the mirrored player state and turns
// bus method calls into domain commands.
type Adapter struct {
	logger  *zap.Logger
	conn    BusConn
	busName string

	// rootProps are the org.mpris.MediaPlayer2 properties, fixed at construction
	rootProps map[string]dbus.Variant
	// capabilities are the constant Player properties
	capabilities map[string]dbus.Variant

	mu             sync.RWMutex
	status         domain.PlayerStatus
	metadata       domain.NormalizedMetadata
	positionMicros int64
	positionAt     time.Time
	closed         bool

	commands  chan domain.Command
	closeOnce sync.Once
	closeErr  error

	lastDropWarning time.Time
}

// NewAdapter exports the MPRIS objects on conn and requests the service name.
// On failure the connection is closed.
func NewAdapter(logger *zap.Logger, conn BusConn, opts Options) (*Adapter, error) {
	a := &Adapter{
		logger:   logger,
		conn:     conn,
		busName:  opts.BusName(),
		status:   domain.StatusStopped,
		commands: make(chan domain.Command, commandBuffer),
		rootProps: map[string]dbus.Variant{
			"CanQuit":             dbus.MakeVariant(true),
			"CanRaise":            dbus.MakeVariant(true),
			"HasTrackList":        dbus.MakeVariant(false),
			"Identity":            dbus.MakeVariant(opts.Identity),
			"DesktopEntry":        dbus.MakeVariant(opts.DesktopEntry),
			"SupportedUriSchemes": dbus.MakeVariant(supportedURISchemes),
			"SupportedMimeTypes":  dbus.MakeVariant(supportedMimeTypes),
		},
		capabilities: map[string]dbus.Variant{
			"Rate":          dbus.MakeVariant(1.0),
			"MinimumRate":   dbus.MakeVariant(1.0),
			"MaximumRate":   dbus.MakeVariant(1.0),
			"Volume":        dbus.MakeVariant(1.0),
			"CanGoNext":     dbus.MakeVariant(true),
			"CanGoPrevious": dbus.MakeVariant(true),
			"CanPlay":       dbus.MakeVariant(true),
			"CanPause":      dbus.MakeVariant(true),
			"CanSeek":       dbus.MakeVariant(true),
			"CanControl":    dbus.MakeVariant(true),
		},
	}

	if err := a.export(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to export MPRIS objects: %w", err)
	}

	reply, err := conn.RequestName(a.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to request bus name %s: %w", a.busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", a.busName, ErrNameTaken)
	}

	logger.Info("MPRIS service registered", zap.String("bus_name", a.busName))
	return a, nil
}

func (a *Adapter) export() error {
	root := &rootObject{a: a}
	player := &playerObject{a: a}
	props := &propertiesObject{a: a}

	exports := []struct {
		v     interface{}
		iface string
	}{
		{root, RootInterface},
		{player, PlayerIface},
		{props, propertiesName},
	}
	for _, e := range exports {
		if err := a.conn.Export(e.v, ObjectPath, e.iface); err != nil {
			return fmt.Errorf("%s: %w", e.iface, err)
		}
	}

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       RootInterface,
				Methods:    introspect.Methods(root),
				Properties: introspectProps(a.rootProps),
			},
			{
				Name:       PlayerIface,
				Methods:    introspect.Methods(player),
				Properties: introspectProps(a.playerProps()),
				Signals: []introspect.Signal{
					{Name: "Seeked", Args: []introspect.Arg{{Name: "Position", Type: "x"}}},
				},
			},
		},
	}
	return a.conn.Export(introspect.NewIntrospectable(node), ObjectPath, "org.freedesktop.DBus.Introspectable")
}

// Publish replaces metadata, playback status and, when present, position, then
// emits a single PropertiesChanged carrying Metadata and PlaybackStatus.
func (a *Adapter) Publish(state domain.ServiceState) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return errors.New("adapter is closed")
	}
	a.status = state.Status
	a.metadata = state.Metadata.Clone()
	if state.PositionMicros != nil {
		a.positionMicros = *state.PositionMicros
		a.positionAt = state.UpdatedAt
	}
	changed := map[string]dbus.Variant{
		"Metadata":       dbus.MakeVariant(metadataMap(a.metadata)),
		"PlaybackStatus": dbus.MakeVariant(string(a.status)),
	}
	a.mu.Unlock()

	if err := a.conn.Emit(ObjectPath, propertiesName+".PropertiesChanged", PlayerIface, changed, []string{}); err != nil {
		return fmt.Errorf("failed to emit PropertiesChanged: %w", err)
	}
	return nil
}

// UpdatePosition stores the last known position. MPRIS consumers poll
// Position, so no signal is emitted.
func (a *Adapter) UpdatePosition(micros int64, at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.New("adapter is closed")
	}
	a.positionMicros = micros
	a.positionAt = at
	return nil
}

// Commands returns bus-originated commands. Closed by Close.
func (a *Adapter) Commands() <-chan domain.Command {
	return a.commands
}

// Done is closed when the bus connection goes away.
func (a *Adapter) Done() <-chan struct{} {
	return a.conn.Context().Done()
}

// Close releases the service name and closes the connection and the command channel.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.commands)
		a.mu.Unlock()

		var err error
		if _, relErr := a.conn.ReleaseName(a.busName); relErr != nil {
			err = multierr.Append(err, fmt.Errorf("release name: %w", relErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close connection: %w", closeErr))
		}
		a.closeErr = err
		a.logger.Info("MPRIS service closed", zap.String("bus_name", a.busName))
	})
	return a.closeErr
}

// emit queues cmd without blocking the bus handler. Commands are dropped
// when the consumer falls behind.
func (a *Adapter) emit(cmd domain.Command) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	select {
	case a.commands <- cmd:
	default:
		if time.Since(a.lastDropWarning) > 5*time.Second {
			a.logger.Warn("Command channel full, dropping command",
				zap.String("command", string(cmd.Name)))
			a.lastDropWarning = time.Now()
		}
	}
}

func (a *Adapter) currentStatus() domain.PlayerStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *Adapter) currentTrack() dbus.ObjectPath {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return trackPath(a.metadata)
}

// playerProps snapshots all org.mpris.MediaPlayer2.Player properties.
func (a *Adapter) playerProps() map[string]dbus.Variant {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]dbus.Variant, len(a.capabilities)+3)
	for k, v := range a.capabilities {
		out[k] = v
	}
	out["PlaybackStatus"] = dbus.MakeVariant(string(a.status))
	out["Metadata"] = dbus.MakeVariant(metadataMap(a.metadata))
	out["Position"] = dbus.MakeVariant(a.positionMicros)
	return out
}

func trackPath(m domain.NormalizedMetadata) dbus.ObjectPath {
	if m.TrackID == "" {
		return noTrack
	}
	return m.TrackID
}

func metadataMap(m domain.NormalizedMetadata) map[string]dbus.Variant {
	artists := m.Artists
	if artists == nil {
		artists = []string{}
	}
	out := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackPath(m)),
		"mpris:length":  dbus.MakeVariant(m.LengthMicros),
		"xesam:title":   dbus.MakeVariant(m.Title),
		"xesam:album":   dbus.MakeVariant(m.Album),
		"xesam:artist":  dbus.MakeVariant(artists),
	}
	if m.ArtURI != "" {
		out["mpris:artUrl"] = dbus.MakeVariant(m.ArtURI)
	}
	return out
}

func introspectProps(props map[string]dbus.Variant) []introspect.Property {
	out := make([]introspect.Property, 0, len(props))
	for name, v := range props {
		out = append(out, introspect.Property{
			Name:   name,
			Type:   v.Signature().String(),
			Access: "read",
		})
	}
	return out
}
