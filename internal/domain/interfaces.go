package domain

import (
	"context"
	"time"
)

// EventSource delivers messages pushed by the UI process.
// Each message type has its own channel and is delivered in arrival order.
//
//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/mediabridge/internal/domain EventSource,CommandSink,ArtworkResolver,Notifier,ServiceAdapter,ServiceConnector
type EventSource interface {
	// PlaybackInfo returns a read-only channel of playback-info messages
	PlaybackInfo() <-chan PlaybackInfo

	// PositionUpdates returns a read-only channel of position-update messages
	PositionUpdates() <-chan PositionUpdate
}

// CommandSink sends media-control commands back to the UI process.
// Send must never block the caller.
type CommandSink interface {
	Send(cmd Command)
}

// ArtworkResolver turns a raw artwork reference into a URI suitable for MPRIS.
type ArtworkResolver interface {
	// Resolve returns a file:// or http(s):// URI, or "" when no artwork is available.
	// It never returns an error; failures surface as "".
	Resolve(ctx context.Context, rawURL string) string
}

// Notifier delivers desktop notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ServiceAdapter is the bus-facing media-control service.
type ServiceAdapter interface {
	// Publish atomically replaces metadata, playback status and (when set) position.
	Publish(state ServiceState) error

	// UpdatePosition stores the last known position and the time it was reported.
	UpdatePosition(micros int64, at time.Time) error

	// Commands returns the channel of commands received from bus consumers.
	// It is closed when the adapter is closed.
	Commands() <-chan Command

	// Done is closed when the underlying bus connection is lost.
	Done() <-chan struct{}

	// Close releases the bus name and connection. Safe to call more than once.
	Close() error
}

// ServiceConnector constructs the service adapter.
type ServiceConnector interface {
	// Available reports whether a session bus is reachable, by inspecting the environment.
	Available() bool

	// Connect registers the media-control service on the bus.
	Connect() (ServiceAdapter, error)
}

// Config defines the interface for application configuration
type Config interface {
	// GetCacheDir returns the artwork cache directory
	GetCacheDir() string

	// GetListenAddr returns the address of the UI message channel
	GetListenAddr() string

	// GetServiceName returns the MPRIS bus name suffix
	GetServiceName() string

	// GetIdentity returns the human-readable player identity
	GetIdentity() string

	// GetDesktopEntry returns the desktop entry basename
	GetDesktopEntry() string

	// NotificationsEnabled reports whether track-change notifications are sent
	NotificationsEnabled() bool

	// GetNotificationIconSize returns the notification icon edge in pixels, 0 to disable resizing
	GetNotificationIconSize() int

	// GetDownloadRetries returns the number of artwork download retries
	GetDownloadRetries() int
}
