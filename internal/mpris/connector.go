package mpris

import (
	"fmt"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// Connector builds the MPRIS adapter on a private session bus connection.
type Connector struct {
	logger *zap.Logger
	opts   Options

	// available and dial are swapped in tests
	available func() bool
	dial      func() (BusConn, error)
}

// NewConnector creates a connector using the configured service identity
func NewConnector(logger *zap.Logger, cfg domain.Config) *Connector {
	return &Connector{
		logger: logger,
		opts: Options{
			ServiceName:  cfg.GetServiceName(),
			Identity:     cfg.GetIdentity(),
			DesktopEntry: cfg.GetDesktopEntry(),
		},
		available: sessionBusAvailable,
		dial:      dialSessionBus,
	}
}

// Available reports whether the environment advertises a session bus.
func (c *Connector) Available() bool {
	return c.available()
}

// Connect opens a dedicated connection and registers the service on it.
func (c *Connector) Connect() (domain.ServiceAdapter, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	adapter, err := NewAdapter(c.logger, conn, c.opts)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

func dialSessionBus() (BusConn, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}
