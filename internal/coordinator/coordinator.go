// Package coordinator reconciles the UI's playback stream with the MPRIS
// service and routes bus commands back to the UI.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/genricoloni/mediabridge/internal/normalizer"
	"github.com/genricoloni/mediabridge/internal/notify"
	"go.uber.org/zap"
)

// State is the lifecycle of the bus service.
type State int

const (
	// Uninitialized is the state before Start
	Uninitialized State = iota
	// Active means the service is registered and receiving updates
	Active
	// Degraded means the service is gone for the rest of the process
	Degraded
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Degraded:
		return "degraded"
	default:
		return "unknown"
	}
}

var errConnectionLost = errors.New("bus connection lost")

// Coordinator owns the service adapter and the notification state.
type Coordinator struct {
	logger    *zap.Logger
	connector domain.ServiceConnector
	source    domain.EventSource
	sink      domain.CommandSink
	artwork   domain.ArtworkResolver
	notifier  domain.Notifier

	// mu guards everything below
	mu           sync.Mutex
	state        State
	adapter      domain.ServiceAdapter
	lastNotified *string // raw trackId of the last announced track
	hasNotified  bool
	running      bool
	cancel       context.CancelFunc

	loop    sync.WaitGroup // event loop
	workers sync.WaitGroup // adapter supervision and command forwarding
	pending sync.WaitGroup // artwork resolutions awaiting publish
}

// New creates a coordinator in the Uninitialized state
func New(
	logger *zap.Logger,
	connector domain.ServiceConnector,
	source domain.EventSource,
	sink domain.CommandSink,
	artwork domain.ArtworkResolver,
	notifier domain.Notifier,
) *Coordinator {
	return &Coordinator{
		logger:    logger,
		connector: connector,
		source:    source,
		sink:      sink,
		artwork:   artwork,
		notifier:  notifier,
	}
}

// Start registers the bus service when a bus is available and launches the
// event loop. It returns immediately; registration failures leave the
// coordinator Degraded rather than failing startup.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	loopCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.logger.Info("Coordinator starting...")

	var adapter domain.ServiceAdapter
	if !c.connector.Available() {
		c.logger.Info("No session bus available, media controls disabled")
	} else if a, err := c.connector.Connect(); err != nil {
		c.logger.Warn("Failed to register media control service", zap.Error(err))
	} else {
		adapter = a
	}

	c.mu.Lock()
	if adapter == nil {
		c.state = Degraded
	} else {
		c.state = Active
		c.adapter = adapter
		c.workers.Add(2)
		go c.supervise(loopCtx, adapter)
		go c.forwardCommands(adapter)
	}
	c.logger.Info("Coordinator started", zap.Stringer("state", c.state))
	c.mu.Unlock()

	c.loop.Add(1)
	go c.runLoop(loopCtx)
	return nil
}

// Stop ends the event loop, waits for in-flight publishes and releases the
// bus service.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	c.logger.Info("Coordinator stopping...")

	waitCh := make(chan struct{})
	go func() {
		c.loop.Wait()
		c.pending.Wait()
		c.mu.Lock()
		adapter := c.adapter
		c.adapter = nil
		c.mu.Unlock()
		if adapter != nil {
			if err := adapter.Close(); err != nil {
				c.logger.Warn("Failed to close media control service", zap.Error(err))
			}
		}
		c.workers.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		c.logger.Info("Coordinator stopped")
		return nil
	case <-ctx.Done():
		c.logger.Warn("Coordinator stop timed out")
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) runLoop(ctx context.Context) {
	defer c.loop.Done()

	playback := c.source.PlaybackInfo()
	positions := c.source.PositionUpdates()

	for playback != nil || positions != nil {
		select {
		case <-ctx.Done():
			c.logger.Info("Coordinator loop stopped")
			return
		case info, ok := <-playback:
			if !ok {
				playback = nil
				continue
			}
			c.HandlePlaybackInfo(ctx, info)
		case update, ok := <-positions:
			if !ok {
				positions = nil
				continue
			}
			c.HandlePositionUpdate(update)
		}
	}
	c.logger.Info("UI event channels closed")
}

// HandlePlaybackInfo normalizes info, decides whether it announces a new
// track, and publishes it once its artwork has been resolved. Artwork
// resolution runs in the background; publishes for consecutive messages may
// complete out of order and the adapter keeps whichever lands last.
func (c *Coordinator) HandlePlaybackInfo(ctx context.Context, info domain.PlaybackInfo) {
	norm := normalizer.Normalize(info)
	status := domain.ParseStatus(info.Status)

	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		c.logger.Debug("Service inactive, playback info not published", zap.String("title", info.Title))
		return
	}
	announce := status == domain.StatusPlaying &&
		(!c.hasNotified || !sameTrackID(c.lastNotified, info.TrackID))
	if announce {
		c.hasNotified = true
		c.lastNotified = info.TrackID
	}
	c.pending.Add(1)
	c.mu.Unlock()

	var position *int64
	if info.Position != nil {
		p := normalizer.PositionMicros(*info.Position)
		position = &p
	}
	receivedAt := time.Now()

	go func() {
		defer c.pending.Done()

		meta := norm.Metadata.WithArtURI(c.artwork.Resolve(ctx, norm.ArtSource))
		ok := c.publish(func(a domain.ServiceAdapter) error {
			return a.Publish(domain.ServiceState{
				Status:         status,
				Metadata:       meta,
				PositionMicros: position,
				UpdatedAt:      receivedAt,
			})
		})

		c.logger.Debug("Playback info published",
			zap.String("track_id", string(meta.TrackID)),
			zap.String("status", string(status)),
			zap.Bool("ok", ok))

		if announce && ok {
			if err := c.notifier.Notify(ctx, notify.FromMetadata(meta)); err != nil {
				c.logger.Warn("Failed to send notification", zap.Error(err))
			}
		}
	}()
}

// sameTrackID compares raw ids as sent by the UI. Object paths are not used
// because sanitizing maps distinct ids onto the same path.
func sameTrackID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// HandlePositionUpdate publishes a position report stamped with its receive
// time, or now when unstamped. Reports are not debounced.
func (c *Coordinator) HandlePositionUpdate(update domain.PositionUpdate) {
	micros := normalizer.PositionMicros(update.Seconds)
	at := update.ReceivedAt
	if at.IsZero() {
		at = time.Now()
	}
	c.publish(func(a domain.ServiceAdapter) error {
		return a.UpdatePosition(micros, at)
	})
}

// publish runs op against the adapter under the lock. Any error degrades the
// service. Returns false when there was no adapter or op failed.
func (c *Coordinator) publish(op func(domain.ServiceAdapter) error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adapter == nil {
		return false
	}
	if err := op(c.adapter); err != nil {
		c.degradeLocked(err)
		return false
	}
	return true
}

// degradeLocked discards the adapter for good. Caller holds c.mu.
func (c *Coordinator) degradeLocked(reason error) {
	c.logger.Warn("Media control service failed, continuing without it", zap.Error(reason))
	c.state = Degraded
	adapter := c.adapter
	c.adapter = nil
	if adapter != nil {
		if err := adapter.Close(); err != nil {
			c.logger.Debug("Error closing failed service", zap.Error(err))
		}
	}
}

// supervise degrades the service when the bus connection drops.
func (c *Coordinator) supervise(ctx context.Context, adapter domain.ServiceAdapter) {
	defer c.workers.Done()
	select {
	case <-ctx.Done():
	case <-adapter.Done():
		c.mu.Lock()
		if c.adapter == adapter {
			c.degradeLocked(errConnectionLost)
		}
		c.mu.Unlock()
	}
}

// forwardCommands relays bus commands to the UI until the adapter is closed.
func (c *Coordinator) forwardCommands(adapter domain.ServiceAdapter) {
	defer c.workers.Done()
	for cmd := range adapter.Commands() {
		c.logger.Debug("Forwarding command", zap.String("command", string(cmd.Name)), zap.Float64("value", cmd.Value))
		c.sink.Send(cmd)
	}
}
