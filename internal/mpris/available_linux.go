//go:build linux
// +build linux

package mpris

import (
	"os"
	"path/filepath"
)

// sessionBusAvailable inspects the environment for a session bus address.
// It does not dial the bus.
func sessionBusAvailable() bool {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return true
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(runtimeDir, "bus"))
	return err == nil && !info.IsDir()
}
