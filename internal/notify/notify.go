// Package notify sends track-change notifications through the desktop
// notification service.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/genricoloni/mediabridge/internal/artwork"
	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod      = notificationsName + ".Notify"

	// UnknownTitle is shown when the track has no title
	UnknownTitle = "Unknown Title"
)

// Caller invokes methods on the notification server.
type Caller interface {
	Call(ctx context.Context, method string, args ...interface{}) error
	Close() error
}

// Dispatcher delivers notifications over the session bus. The connection is
// opened on first use.
type Dispatcher struct {
	logger       *zap.Logger
	icons        *IconCache
	appName      string
	desktopEntry string

	mu     sync.Mutex
	caller Caller
	dial   func() (Caller, error)
}

// New returns the configured notifier: a Dispatcher, or a no-op when
// notifications are disabled.
func New(logger *zap.Logger, cfg domain.Config, icons *IconCache) domain.Notifier {
	if !cfg.NotificationsEnabled() {
		logger.Info("Desktop notifications disabled")
		return Noop{}
	}
	return NewDispatcher(logger, cfg, icons)
}

// NewDispatcher creates a bus-backed dispatcher
func NewDispatcher(logger *zap.Logger, cfg domain.Config, icons *IconCache) *Dispatcher {
	return &Dispatcher{
		logger:       logger,
		icons:        icons,
		appName:      cfg.GetIdentity(),
		desktopEntry: cfg.GetDesktopEntry(),
		dial:         dialNotifications,
	}
}

// Notify shows n. Silent notifications carry the suppress-sound hint.
func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification) error {
	caller, err := d.connect()
	if err != nil {
		return err
	}

	icon := n.Icon
	if icon != "" && d.icons != nil {
		icon = d.icons.Thumbnail(icon)
	}

	hints := map[string]dbus.Variant{}
	if d.desktopEntry != "" {
		hints["desktop-entry"] = dbus.MakeVariant(d.desktopEntry)
	}
	if n.Silent {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}

	err = caller.Call(ctx, notifyMethod,
		d.appName, uint32(0), icon, n.Title, n.Body, []string{}, hints, int32(-1))
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	d.logger.Debug("Notification sent", zap.String("title", n.Title), zap.String("icon", icon))
	return nil
}

// Close drops the bus connection, if one was opened
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.caller == nil {
		return nil
	}
	err := d.caller.Close()
	d.caller = nil
	return err
}

func (d *Dispatcher) connect() (Caller, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.caller != nil {
		return d.caller, nil
	}
	caller, err := d.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notification service: %w", err)
	}
	d.caller = caller
	return caller, nil
}

// Noop discards notifications
type Noop struct{}

func (Noop) Notify(context.Context, domain.Notification) error { return nil }

// FromMetadata builds the track-change notification for m. The icon is set
// only when the artwork is a local file.
func FromMetadata(m domain.NormalizedMetadata) domain.Notification {
	title := m.Title
	if title == "" {
		title = UnknownTitle
	}
	return domain.Notification{
		Title:  title,
		Body:   strings.Join(m.Artists, ", ") + "\n" + m.Album,
		Icon:   artwork.LocalPath(m.ArtURI),
		Silent: true,
	}
}

type busCaller struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func dialNotifications() (Caller, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &busCaller{
		conn: conn,
		obj:  conn.Object(notificationsName, notificationsPath),
	}, nil
}

func (b *busCaller) Call(ctx context.Context, method string, args ...interface{}) error {
	return b.obj.CallWithContext(ctx, method, 0, args...).Err
}

func (b *busCaller) Close() error {
	return b.conn.Close()
}
