package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1 << 20

	eventBuffer   = 32
	sendQueueSize = 16
)

// Server accepts UI connections on /ws. Inbound messages are delivered on
// PlaybackInfo and PositionUpdates in arrival order; Send broadcasts commands
// to every connected UI.
type Server struct {
	logger   *zap.Logger
	addr     string
	upgrader websocket.Upgrader

	playback  chan domain.PlaybackInfo
	positions chan domain.PositionUpdate

	mu              sync.RWMutex
	running         bool
	clients         map[string]*client
	httpServer      *http.Server
	listener        net.Listener
	cancel          context.CancelFunc
	ctx             context.Context
	lastDropWarning time.Time
	wg              sync.WaitGroup
}

type client struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
}

// NewServer creates a server bound to the configured listen address
func NewServer(logger *zap.Logger, cfg domain.Config) *Server {
	return &Server{
		logger: logger,
		addr:   cfg.GetListenAddr(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Loopback only; the UI is served from a custom scheme origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		playback:  make(chan domain.PlaybackInfo, eventBuffer),
		positions: make(chan domain.PositionUpdate, eventBuffer),
		clients:   make(map[string]*client),
	}
}

// Routes returns the HTTP handler: /ws and /health.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("UI channel server failed", zap.Error(err))
		}
	}()

	s.logger.Info("UI channel listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop closes the listener and every connection, waits for the read pumps to
// exit, then closes the event channels.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	httpServer := s.httpServer
	var err error
	for id, c := range s.clients {
		if cerr := c.ws.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
		delete(s.clients, id)
		close(c.send)
	}
	s.mu.Unlock()

	err = multierr.Append(err, httpServer.Shutdown(ctx))

	s.logger.Debug("Waiting for connection goroutines to finish")
	s.wg.Wait()

	close(s.playback)
	close(s.positions)

	s.logger.Info("UI channel shutdown complete")
	return err
}

// PlaybackInfo returns the stream of playback-info messages.
func (s *Server) PlaybackInfo() <-chan domain.PlaybackInfo {
	return s.playback
}

// PositionUpdates returns the stream of position-update messages.
func (s *Server) PositionUpdates() <-chan domain.PositionUpdate {
	return s.positions
}

// Send broadcasts cmd to every connected UI. It never blocks; a connection
// whose queue is full misses the command.
func (s *Server) Send(cmd domain.Command) {
	frame, err := EncodeCommand(cmd)
	if err != nil {
		s.logger.Error("Failed to encode command", zap.String("command", string(cmd.Name)), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) == 0 {
		s.logger.Debug("No UI connected, dropping command", zap.String("command", string(cmd.Name)))
		return
	}
	for _, c := range s.clients {
		select {
		case c.send <- frame:
		default:
			s.logChannelFullWarning(c.id)
		}
	}
}

// logChannelFullWarning logs at most one warning every 5 seconds. Caller holds s.mu.
func (s *Server) logChannelFullWarning(id string) {
	if time.Since(s.lastDropWarning) > 5*time.Second {
		s.logger.Warn("Connection send queue full, dropping command", zap.String("conn", id))
		s.lastDropWarning = time.Now()
	}
}

// ClientCount returns the number of connected UIs.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, sendQueueSize),
	}

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		_ = ws.Close()
		return
	}
	s.clients[c.id] = c
	s.wg.Add(2)
	s.mu.Unlock()

	s.logger.Info("UI connected", zap.String("conn", c.id), zap.String("remote", r.RemoteAddr))

	go s.writePump(c)
	go s.readPump(c)
}

// unregister removes c and closes its send queue. Safe to call twice.
func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	close(c.send)
	s.logger.Info("UI disconnected", zap.String("conn", c.id))
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		_ = c.ws.Close()
		s.wg.Done()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := decodeInbound(frame, time.Now())
		if err != nil {
			s.logger.Warn("Skipping message", zap.String("conn", c.id), zap.Error(err))
			continue
		}

		if !s.deliver(msg) {
			return
		}
	}
}

// deliver forwards msg to its channel, blocking until it is consumed so no
// message is lost. Returns false once the server is stopping.
func (s *Server) deliver(msg inbound) bool {
	switch {
	case msg.playback != nil:
		select {
		case s.playback <- *msg.playback:
		case <-s.ctx.Done():
			return false
		}
	case msg.position != nil:
		select {
		case s.positions <- *msg.position:
		case <-s.ctx.Done():
			return false
		}
	}
	return true
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
		s.wg.Done()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.logger.Debug("WebSocket write failed", zap.String("conn", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
