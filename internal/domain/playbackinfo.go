package domain

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON decodes a playback-info payload without ever failing on shape:
// fields with unexpected types are left at their zero value.
func (p *PlaybackInfo) UnmarshalJSON(data []byte) error {
	*p = PlaybackInfo{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	p.TrackID = decodeTrackID(fields["trackId"])
	p.Title, _ = rawString(fields["title"])
	p.Artist = decodeArtist(fields["artist"])
	p.Album = decodeAlbum(fields["album"])
	p.Length, _ = rawNumber(fields["length"])
	if pos, ok := rawNumber(fields["position"]); ok {
		p.Position = &pos
	}
	p.Status, _ = rawString(fields["status"])
	p.ArtURL, _ = rawString(fields["artUrl"])

	return nil
}

// decodeTrackID accepts strings and bare numbers; null and other shapes mean "no id".
func decodeTrackID(raw json.RawMessage) *string {
	if s, ok := rawString(raw); ok {
		return &s
	}
	if _, ok := rawNumber(raw); ok {
		s := string(bytes.TrimSpace(raw))
		return &s
	}
	return nil
}

func decodeArtist(raw json.RawMessage) ArtistField {
	switch firstByte(raw) {
	case '"':
		s, _ := rawString(raw)
		return ArtistField{Kind: ArtistText, Text: s}
	case '{':
		return ArtistField{Kind: ArtistObject, Object: decodeArtistRef(raw)}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ArtistField{}
		}
		list := make([]ArtistEntry, 0, len(items))
		for _, item := range items {
			list = append(list, decodeArtistEntry(item))
		}
		return ArtistField{Kind: ArtistList, List: list}
	}
	return ArtistField{}
}

func decodeArtistEntry(raw json.RawMessage) ArtistEntry {
	switch firstByte(raw) {
	case '"':
		s, _ := rawString(raw)
		return ArtistEntry{Kind: EntryText, Text: s}
	case '{':
		return ArtistEntry{Kind: EntryObject, Object: decodeArtistRef(raw)}
	}
	return ArtistEntry{Kind: EntryOther}
}

func decodeArtistRef(raw json.RawMessage) ArtistRef {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ArtistRef{}
	}
	var ref ArtistRef
	ref.Name, _ = rawString(obj["name"])
	ref.ImageURL, _ = rawString(obj["imageUrl"])
	return ref
}

func decodeAlbum(raw json.RawMessage) AlbumField {
	switch firstByte(raw) {
	case '"':
		s, _ := rawString(raw)
		return AlbumField{Kind: AlbumText, Text: s}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return AlbumField{}
		}
		album := AlbumField{Kind: AlbumObject}
		album.Name, _ = rawString(obj["name"])
		album.ImageURL, _ = rawString(obj["imageUrl"])
		return album
	}
	return AlbumField{}
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func rawString(raw json.RawMessage) (string, bool) {
	if firstByte(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func rawNumber(raw json.RawMessage) (float64, bool) {
	b := firstByte(raw)
	if b != '-' && (b < '0' || b > '9') {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}
