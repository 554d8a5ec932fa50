// Package trackid maps catalog track identifiers onto MPRIS track object paths.
package trackid

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	// Prefix is the object path namespace for tracks
	Prefix = "/org/mediabridge/track/"

	// Default is used when the UI reports no track id
	Default dbus.ObjectPath = Prefix + "0"
)

// Generate returns the object path for rawID. Every character outside
// [A-Za-z0-9_] is replaced with '_'. A nil or empty id yields Default.
func Generate(rawID *string) dbus.ObjectPath {
	if rawID == nil || *rawID == "" {
		return Default
	}
	return dbus.ObjectPath(Prefix + sanitize(*rawID))
}

func sanitize(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if isPathChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isPathChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
