package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is the UI side of the channel. It is used by the send subcommand
// and by tests.
type Client struct {
	logger   *zap.Logger
	ws       *websocket.Conn
	commands chan domain.Command

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the bridge listening on addr (host:port).
func Dial(ctx context.Context, logger *zap.Logger, addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", u.String(), err)
	}

	c := &Client{
		logger:   logger,
		ws:       ws,
		commands: make(chan domain.Command, sendQueueSize),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Send writes one envelope of type t with data as payload.
func (c *Client) Send(t MessageType, data interface{}) error {
	frame, err := NewEnvelope(t, data)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to send %s: %w", t, err)
	}
	return nil
}

// SendPlaybackInfo sends a raw playback-info payload
func (c *Client) SendPlaybackInfo(payload json.RawMessage) error {
	return c.Send(TypePlaybackInfo, payload)
}

// SendPosition sends a position-update in seconds
func (c *Client) SendPosition(seconds float64) error {
	return c.Send(TypePositionUpdate, seconds)
}

// Commands returns media-control commands received from the bridge. The
// channel is closed when the connection ends.
func (c *Client) Commands() <-chan domain.Command {
	return c.commands
}

// Close performs the closing handshake and releases the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.writeMu.Unlock()

		select {
		case <-c.done:
		case <-time.After(time.Second):
		}
		err = c.ws.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.commands)

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				c.logger.Debug("Client read ended", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.logger.Warn("Skipping undecodable frame", zap.Error(err))
			continue
		}
		if env.Type != TypeMediaControl {
			c.logger.Debug("Skipping message", zap.String("type", string(env.Type)))
			continue
		}

		cmd, err := DecodeCommand(env.Data)
		if err != nil {
			c.logger.Warn("Skipping command", zap.Error(err))
			continue
		}
		select {
		case c.commands <- cmd:
		default:
			c.logger.Warn("Command queue full, dropping command", zap.String("command", string(cmd.Name)))
		}
	}
}
