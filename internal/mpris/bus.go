package mpris

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// BusConn is the subset of a session bus connection the adapter uses.
// *dbus.Conn satisfies it; tests substitute a mock.
//
//go:generate mockgen -destination=mocks/bus_mock.go -package=mocks github.com/genricoloni/mediabridge/internal/mpris BusConn
type BusConn interface {
	// RequestName asks the bus to assign name to this connection
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)

	// ReleaseName gives up ownership of name
	ReleaseName(name string) (dbus.ReleaseNameReply, error)

	// Export registers v's methods under path and interface iface
	Export(v interface{}, path dbus.ObjectPath, iface string) error

	// Emit sends a signal from path
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error

	// Close closes the connection
	Close() error

	// Context is cancelled once the connection is closed, locally or by the peer
	Context() context.Context
}
