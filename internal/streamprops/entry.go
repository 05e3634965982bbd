package streamprops

import (
	"fmt"
	"math"
	"strings"
)

// VolumeTolerance is the absolute difference below which two channel
// volumes are considered equal.
const VolumeTolerance = 0.001

// DefaultSelectionProperty is the selection property for created entries.
const DefaultSelectionProperty = "application.name"

// Entry is one data line of the state file.
type Entry struct {
	Category          Category
	SelectionProperty string
	// SelectionPattern is stored file-escaped (spaces as `\s`).
	SelectionPattern string
	Properties       Properties
}

// CheckVolume returns an *OutOfRangeError unless v lies in [0.0, 1.0].
// NaN is out of range.
func CheckVolume(v float64) error {
	if math.IsNaN(v) || v < 0.0 || v > 1.0 {
		return &OutOfRangeError{Volume: v}
	}
	return nil
}

// NewEntry builds an entry from its file fields. pattern must already be
// file-escaped.
func NewEntry(category Category, property, pattern, propertiesJSON string) (*Entry, error) {
	props, err := DecodeProperties(propertiesJSON)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Category:          category,
		SelectionProperty: property,
		SelectionPattern:  pattern,
		Properties:        props,
	}, nil
}

// NewDefaultOutputAudio returns an Output/Audio entry matching
// application.name against pattern, at full volume on two channels.
func NewDefaultOutputAudio(pattern string) *Entry {
	return &Entry{
		Category:          CategoryOutputAudio,
		SelectionProperty: DefaultSelectionProperty,
		SelectionPattern:  pattern,
		Properties:        DefaultProperties(),
	}
}

// Key returns the unescaped selection pattern used as the Store key.
func (e *Entry) Key() string {
	return UnescapePattern(e.SelectionPattern)
}

// SetChannelVolume sets every channel volume to target.
//
// The returned flag reports whether any channel differed from target by
// more than VolumeTolerance before the update. Channels are rewritten either
// way. An out-of-range target fails before anything is modified.
func (e *Entry) SetChannelVolume(target float64) (bool, error) {
	if err := CheckVolume(target); err != nil {
		return false, err
	}

	changed := false
	for _, v := range e.Properties.ChannelVolumes {
		if math.Abs(v.Float64()-target) > VolumeTolerance {
			changed = true
			break
		}
	}

	for i := range e.Properties.ChannelVolumes {
		e.Properties.ChannelVolumes[i] = LevelOf(target)
	}

	return changed, nil
}

// Line renders the entry as a state-file data line without the trailing
// newline.
func (e *Entry) Line() (string, error) {
	props, err := e.Properties.Encode()
	if err != nil {
		return "", fmt.Errorf("%s:%s:%s: %w", e.Category.Label(), e.SelectionProperty, e.SelectionPattern, err)
	}
	return fmt.Sprintf("%s:%s:%s=%s",
		e.Category.Label(),
		e.SelectionProperty,
		EscapePattern(e.SelectionPattern),
		props,
	), nil
}

// EscapePattern writes spaces as `\s`.
func EscapePattern(s string) string {
	return strings.ReplaceAll(s, " ", `\s`)
}

// UnescapePattern turns `\s` back into spaces.
func UnescapePattern(s string) string {
	return strings.ReplaceAll(s, `\s`, " ")
}
