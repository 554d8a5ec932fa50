//go:build !linux
// +build !linux

package mpris

// sessionBusAvailable is always false outside Linux.
func sessionBusAvailable() bool {
	return false
}
