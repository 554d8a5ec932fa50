package mpris

import (
	"errors"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/zap"
)

const microsPerSecond = 1_000_000

// rootObject implements org.mpris.MediaPlayer2
type rootObject struct {
	a *Adapter
}

func (r *rootObject) Raise() *dbus.Error {
	r.a.emit(domain.Command{Name: domain.CmdRaise})
	return nil
}

func (r *rootObject) Quit() *dbus.Error {
	r.a.emit(domain.Command{Name: domain.CmdQuit})
	return nil
}

// playerObject implements org.mpris.MediaPlayer2.Player
type playerObject struct {
	a *Adapter
}

func (p *playerObject) Next() *dbus.Error {
	p.a.emit(domain.Command{Name: domain.CmdNext})
	return nil
}

func (p *playerObject) Previous() *dbus.Error {
	p.a.emit(domain.Command{Name: domain.CmdPrevious})
	return nil
}

func (p *playerObject) Pause() *dbus.Error {
	p.a.emit(domain.Command{Name: domain.CmdPause})
	return nil
}

func (p *playerObject) PlayPause() *dbus.Error {
	if p.a.currentStatus() == domain.StatusPlaying {
		return p.Pause()
	}
	return p.Play()
}

func (p *playerObject) Stop() *dbus.Error {
	p.a.emit(domain.Command{Name: domain.CmdStop})
	return nil
}

func (p *playerObject) Play() *dbus.Error {
	p.a.emit(domain.Command{Name: domain.CmdPlay})
	return nil
}

// Seek moves by offset microseconds relative to the current position.
func (p *playerObject) Seek(offset int64) *dbus.Error {
	p.a.emit(domain.Command{Name: domain.CmdSeek, Value: float64(offset) / microsPerSecond})
	return nil
}

// SetPosition jumps to position microseconds. Calls for a track other than the
// current one, or with a negative position, are ignored.
func (p *playerObject) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	current := p.a.currentTrack()
	if trackID != current || position < 0 {
		p.a.logger.Debug("Ignoring SetPosition",
			zap.String("track_id", string(trackID)),
			zap.String("current", string(current)),
			zap.Int64("position", position))
		return nil
	}
	p.a.emit(domain.Command{Name: domain.CmdPosition, Value: float64(position) / microsPerSecond})
	return nil
}

func (p *playerObject) OpenUri(uri string) *dbus.Error {
	return dbus.MakeFailedError(errors.New("OpenUri is not supported"))
}

// propertiesObject implements org.freedesktop.DBus.Properties. All properties
// are read-only.
type propertiesObject struct {
	a *Adapter
}

func (o *propertiesObject) lookup(iface string) (map[string]dbus.Variant, *dbus.Error) {
	switch iface {
	case RootInterface:
		return o.a.rootProps, nil
	case PlayerIface:
		return o.a.playerProps(), nil
	default:
		return nil, prop.ErrIfaceNotFound
	}
}

func (o *propertiesObject) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	props, dErr := o.lookup(iface)
	if dErr != nil {
		return dbus.Variant{}, dErr
	}
	v, ok := props[name]
	if !ok {
		return dbus.Variant{}, prop.ErrPropNotFound
	}
	return v, nil
}

func (o *propertiesObject) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	props, dErr := o.lookup(iface)
	if dErr != nil {
		return nil, dErr
	}
	out := make(map[string]dbus.Variant, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out, nil
}

func (o *propertiesObject) Set(iface, name string, value dbus.Variant) *dbus.Error {
	props, dErr := o.lookup(iface)
	if dErr != nil {
		return dErr
	}
	if _, ok := props[name]; !ok {
		return prop.ErrPropNotFound
	}
	return prop.ErrReadOnly
}
