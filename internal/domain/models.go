package domain

import (
	"time"

	"github.com/godbus/dbus/v5"
)

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// ParseStatus maps a raw status string onto a PlayerStatus.
// Anything unrecognised is treated as Stopped.
func ParseStatus(s string) PlayerStatus {
	switch PlayerStatus(s) {
	case StatusPlaying:
		return StatusPlaying
	case StatusPaused:
		return StatusPaused
	default:
		return StatusStopped
	}
}

// PlaybackInfo is the playback snapshot pushed by the UI process, one message per change.
// It is decoded leniently (see playbackinfo.go): shape errors degrade to zero values.
type PlaybackInfo struct {
	// TrackID is the catalog track identifier; nil when the UI sent null or nothing
	TrackID *string
	Title   string
	Artist  ArtistField
	Album   AlbumField
	// Length in seconds
	Length float64
	// Position in seconds; nil when the message carried no position
	Position *float64
	// Status is the raw status string as sent by the UI
	Status string
	// ArtURL is an optional raw URL or local path
	ArtURL string
}

// ArtistKind tags the shape the UI used for the artist field.
type ArtistKind int

const (
	ArtistNone ArtistKind = iota
	ArtistText
	ArtistObject
	ArtistList
)

// ArtistField is the tagged union over the artist shapes the UI sends:
// a plain string, a {name, imageUrl} object, or a list of either.
type ArtistField struct {
	Kind   ArtistKind
	Text   string
	Object ArtistRef
	List   []ArtistEntry
}

// ArtistRef is the object form of an artist.
type ArtistRef struct {
	Name     string
	ImageURL string
}

// EntryKind tags one element of an artist list.
type EntryKind int

const (
	// EntryOther covers null, numbers, booleans and nested arrays
	EntryOther EntryKind = iota
	EntryText
	EntryObject
)

// ArtistEntry is one element of an artist list.
type ArtistEntry struct {
	Kind   EntryKind
	Text   string
	Object ArtistRef
}

// AlbumKind tags the shape the UI used for the album field.
type AlbumKind int

const (
	AlbumNone AlbumKind = iota
	AlbumText
	AlbumObject
)

// AlbumField is the tagged union over a plain album name or a {name, imageUrl} object.
type AlbumField struct {
	Kind     AlbumKind
	Text     string
	Name     string
	ImageURL string
}

// PositionUpdate carries a position report from the UI process.
type PositionUpdate struct {
	Seconds    float64
	ReceivedAt time.Time
}

// NormalizedMetadata is the canonical track description exposed on the bus.
type NormalizedMetadata struct {
	TrackID      dbus.ObjectPath
	LengthMicros int64
	ArtURI       string
	Title        string
	Album        string
	Artists      []string
}

// Clone returns a copy of m that shares no backing storage with it.
func (m NormalizedMetadata) Clone() NormalizedMetadata {
	m.Artists = append([]string(nil), m.Artists...)
	return m
}

// WithArtURI returns a copy of m with the resolved artwork URI set.
func (m NormalizedMetadata) WithArtURI(uri string) NormalizedMetadata {
	m = m.Clone()
	m.ArtURI = uri
	return m
}

// Normalized is the Normalizer output: metadata plus the raw artwork source
// still to be resolved through the artwork cache.
type Normalized struct {
	Metadata  NormalizedMetadata
	ArtSource string
}

// ServiceState is the state the coordinator mirrors into the service adapter.
type ServiceState struct {
	Status   PlayerStatus
	Metadata NormalizedMetadata
	// PositionMicros is nil when the originating message carried no position
	PositionMicros *int64
	UpdatedAt      time.Time
}

// CommandName identifies a media-control command sent back to the UI process.
type CommandName string

const (
	CmdPlay     CommandName = "play"
	CmdPause    CommandName = "pause"
	CmdNext     CommandName = "next"
	CmdPrevious CommandName = "previous"
	CmdStop     CommandName = "stop"
	CmdSeek     CommandName = "seek"
	CmdPosition CommandName = "position"
	CmdRaise    CommandName = "raise"
	CmdQuit     CommandName = "quit"
)

// Command is an outbound media-control command.
type Command struct {
	Name CommandName
	// Value is the seek offset or absolute position in seconds; only meaningful
	// for CmdSeek and CmdPosition
	Value float64
}

// HasValue reports whether the command carries a seconds value on the wire.
func (c Command) HasValue() bool {
	return c.Name == CmdSeek || c.Name == CmdPosition
}

// Notification is a desktop notification request.
type Notification struct {
	Title string
	Body  string
	// Icon is a local file path, empty when no local artwork is available
	Icon   string
	Silent bool
}
