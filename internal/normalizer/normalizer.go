// Package normalizer converts the loosely-typed playback info pushed by the UI
// into the canonical metadata exposed on the bus.
package normalizer

import (
	"math"

	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/genricoloni/mediabridge/internal/trackid"
)

// Normalize derives metadata from info. It is total: malformed input degrades
// to empty strings and lists.
func Normalize(info domain.PlaybackInfo) domain.Normalized {
	return domain.Normalized{
		Metadata: domain.NormalizedMetadata{
			TrackID:      trackid.Generate(info.TrackID),
			LengthMicros: LengthMicros(info.Length),
			Title:        info.Title,
			Album:        albumName(info.Album),
			Artists:      artistNames(info.Artist),
		},
		ArtSource: artSource(info),
	}
}

// LengthMicros converts a length in seconds to whole microseconds, never
// negative. Values beyond the int64 range saturate.
func LengthMicros(seconds float64) int64 {
	return toMicros(seconds, math.Round)
}

// PositionMicros converts a position in seconds to microseconds, rounding down.
func PositionMicros(seconds float64) int64 {
	return toMicros(seconds, math.Floor)
}

// maxMicros is 2^63. Float-to-int conversion of anything at or above it is
// implementation-defined in Go.
const maxMicros = float64(1 << 63)

func toMicros(seconds float64, round func(float64) float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	v := round(seconds * 1_000_000)
	if v >= maxMicros {
		return math.MaxInt64
	}
	return int64(v)
}

func albumName(album domain.AlbumField) string {
	switch album.Kind {
	case domain.AlbumObject:
		return album.Name
	case domain.AlbumText:
		return album.Text
	default:
		return ""
	}
}

func artistNames(artist domain.ArtistField) []string {
	switch artist.Kind {
	case domain.ArtistList:
		names := make([]string, 0, len(artist.List))
		for _, entry := range artist.List {
			var name string
			switch entry.Kind {
			case domain.EntryObject:
				name = entry.Object.Name
			case domain.EntryText:
				name = entry.Text
			}
			if name != "" {
				names = append(names, name)
			}
		}
		return names
	case domain.ArtistObject:
		if artist.Object.Name == "" {
			return []string{}
		}
		return []string{artist.Object.Name}
	case domain.ArtistText:
		if artist.Text == "" {
			return []string{}
		}
		return []string{artist.Text}
	default:
		return []string{}
	}
}

// artSource picks the album image, then the explicit art URL, then the first
// listed artist's image.
func artSource(info domain.PlaybackInfo) string {
	if info.Album.Kind == domain.AlbumObject && info.Album.ImageURL != "" {
		return info.Album.ImageURL
	}
	if info.ArtURL != "" {
		return info.ArtURL
	}
	if info.Artist.Kind == domain.ArtistList && len(info.Artist.List) > 0 {
		if first := info.Artist.List[0]; first.Kind == domain.EntryObject {
			return first.Object.ImageURL
		}
	}
	return ""
}
