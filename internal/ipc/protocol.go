// Package ipc carries messages between the UI process and the bridge over a
// loopback WebSocket.
package ipc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/genricoloni/mediabridge/internal/domain"
)

// MessageType identifies an envelope's payload
type MessageType string

const (
	// TypePlaybackInfo carries a playback snapshot (UI -> bridge)
	TypePlaybackInfo MessageType = "playback-info"
	// TypePositionUpdate carries a position in seconds (UI -> bridge)
	TypePositionUpdate MessageType = "position-update"
	// TypeMediaControl carries a command (bridge -> UI)
	TypeMediaControl MessageType = "media-control"
)

// ErrUnknownMessage is returned for envelopes of an unrecognised type.
var ErrUnknownMessage = errors.New("unknown message type")

// Envelope is the frame exchanged on the channel
type Envelope struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type controlData struct {
	Command string   `json:"command"`
	Value   *float64 `json:"value,omitempty"`
}

// NewEnvelope marshals data into an envelope stamped with the current time.
func NewEnvelope(t MessageType, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", t, err)
	}
	return json.Marshal(Envelope{Type: t, Data: raw, Timestamp: time.Now().UnixMilli()})
}

// EncodeCommand builds a media-control envelope. The value field is only
// present for commands that carry one.
func EncodeCommand(cmd domain.Command) ([]byte, error) {
	data := controlData{Command: string(cmd.Name)}
	if cmd.HasValue() {
		v := cmd.Value
		data.Value = &v
	}
	return NewEnvelope(TypeMediaControl, data)
}

// DecodeCommand parses the data of a media-control envelope.
func DecodeCommand(data json.RawMessage) (domain.Command, error) {
	var cd controlData
	if err := json.Unmarshal(data, &cd); err != nil {
		return domain.Command{}, fmt.Errorf("invalid media-control payload: %w", err)
	}
	if cd.Command == "" {
		return domain.Command{}, errors.New("invalid media-control payload: missing command")
	}
	cmd := domain.Command{Name: domain.CommandName(cd.Command)}
	if cd.Value != nil {
		cmd.Value = *cd.Value
	}
	return cmd, nil
}

// inbound is a decoded UI message: exactly one of the fields is set.
type inbound struct {
	playback *domain.PlaybackInfo
	position *domain.PositionUpdate
}

// decodeInbound parses a UI -> bridge frame.
func decodeInbound(frame []byte, now time.Time) (inbound, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return inbound{}, fmt.Errorf("invalid envelope: %w", err)
	}

	data := env.Data
	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage("null")
	}

	switch env.Type {
	case TypePlaybackInfo:
		var info domain.PlaybackInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return inbound{}, fmt.Errorf("invalid playback-info payload: %w", err)
		}
		return inbound{playback: &info}, nil
	case TypePositionUpdate:
		var seconds *float64
		if err := json.Unmarshal(data, &seconds); err != nil {
			return inbound{}, fmt.Errorf("invalid position-update payload: %w", err)
		}
		if seconds == nil {
			return inbound{}, errors.New("invalid position-update payload: missing position")
		}
		return inbound{position: &domain.PositionUpdate{Seconds: *seconds, ReceivedAt: now}}, nil
	default:
		return inbound{}, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
}
