package streamprops

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Level is a linear volume scalar.
//
// A Level decoded from a file keeps the number literal it was read from and
// encodes back to exactly that text, so untouched values survive a rewrite
// unchanged (`1` stays `1`, `1.0` stays `1.0`). Levels built with LevelOf
// encode the way Python's repr writes floats: 1.0, 0.3, 1e-05, 1e+16.
type Level struct {
	value float64
	text  string
}

// LevelOf returns a Level holding f with no source text.
func LevelOf(f float64) Level {
	return Level{value: f}
}

// Float64 returns the numeric value.
func (l Level) Float64() float64 {
	return l.value
}

// String returns the JSON text the level encodes to.
func (l Level) String() string {
	if l.text != "" {
		return l.text
	}
	return formatLevel(l.value)
}

// MarshalJSON writes the source text, or the repr form for computed levels.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalJSON accepts a JSON number and remembers its literal text.
func (l *Level) UnmarshalJSON(data []byte) error {
	text := string(data)
	// The decoder hands over raw literals; only numbers parse as floats.
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("level must be a number, got %s", text)
	}
	*l = Level{value: f, text: text}
	return nil
}

// formatLevel writes f in shortest round-trip form, switching to exponent
// notation below 1e-4 and from 1e16 up. Fixed-point output always carries a
// decimal point.
func formatLevel(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Properties is the JSON property set attached to every entry.
// Field order here is the encoded key order.
type Properties struct {
	Volume         Level    `json:"volume"`
	Mute           bool     `json:"mute"`
	ChannelMap     []string `json:"channelMap"`
	ChannelVolumes []Level  `json:"channelVolumes"`
}

// rawProperties detects missing keys during decode.
type rawProperties struct {
	Volume         *Level    `json:"volume"`
	Mute           *bool     `json:"mute"`
	ChannelMap     *[]string `json:"channelMap"`
	ChannelVolumes *[]Level  `json:"channelVolumes"`
}

// DefaultProperties returns the property set given to newly created entries:
// full volume, unmuted, stereo.
func DefaultProperties() Properties {
	return Properties{
		Volume:         LevelOf(1.0),
		Mute:           false,
		ChannelMap:     []string{"FL", "FR"},
		ChannelVolumes: []Level{LevelOf(1.0), LevelOf(1.0)},
	}
}

// DecodeProperties parses a property set. All four keys are required and
// unknown keys are rejected.
func DecodeProperties(data string) (Properties, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()

	var raw rawProperties
	if err := dec.Decode(&raw); err != nil {
		return Properties{}, fmt.Errorf("decode properties: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Properties{}, fmt.Errorf("decode properties: trailing data after object")
	}

	switch {
	case raw.Volume == nil:
		return Properties{}, fmt.Errorf("decode properties: missing %q", "volume")
	case raw.Mute == nil:
		return Properties{}, fmt.Errorf("decode properties: missing %q", "mute")
	case raw.ChannelMap == nil:
		return Properties{}, fmt.Errorf("decode properties: missing %q", "channelMap")
	case raw.ChannelVolumes == nil:
		return Properties{}, fmt.Errorf("decode properties: missing %q", "channelVolumes")
	}

	return Properties{
		Volume:         *raw.Volume,
		Mute:           *raw.Mute,
		ChannelMap:     *raw.ChannelMap,
		ChannelVolumes: *raw.ChannelVolumes,
	}, nil
}

// Encode renders the property set as compact JSON without HTML escaping.
func (p Properties) Encode() (string, error) {
	// Nil slices would encode as null, which DecodeProperties rejects.
	if p.ChannelMap == nil {
		p.ChannelMap = []string{}
	}
	if p.ChannelVolumes == nil {
		p.ChannelVolumes = []Level{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode properties: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
