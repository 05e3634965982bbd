package streamprops

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// SectionHeader is the first line of every stream-properties file.
const SectionHeader = "[stream-properties]"

// maxLineSize bounds a single line; property sets are small.
const maxLineSize = 1 << 20

// Store is an insertion-ordered collection of entries keyed by unescaped
// selection pattern.
//
// Not safe for concurrent use.
type Store struct {
	keys    []string
	entries map[string]*Entry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.keys)
}

// Keys returns the keys in render order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Entries returns the entries in render order.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.entries[k]
	}
	return out
}

// Lookup returns the entry stored under key.
func (s *Store) Lookup(key string) (*Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Upsert stores e under key. A new key is appended to the end; an existing
// key keeps its position.
func (s *Store) Upsert(key string, e *Entry) {
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = e
}

// Parse reads a stream-properties file.
//
// Blank lines and '#' comments are skipped and not retained. The first
// remaining line must be the section header. Any malformed or unknown line
// aborts the whole parse.
func Parse(r io.Reader) (*Store, error) {
	s := NewStore()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	headerSeen := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == SectionHeader {
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, &MalformedLineError{Line: lineNo, Text: line, Reason: "expected " + SectionHeader + " header"}
		}

		key, entry, err := parseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		s.Upsert(key, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream properties: %w", err)
	}

	return s, nil
}

// parseLine splits one data line into its Store key and Entry.
func parseLine(lineNo int, line string) (string, *Entry, error) {
	selector, propsJSON, ok := strings.Cut(line, "=")
	if !ok {
		return "", nil, &MalformedLineError{Line: lineNo, Text: line, Reason: "missing '=' separator"}
	}

	// The pattern may itself contain colons, so split on the first two only.
	fields := strings.SplitN(selector, ":", 3)
	if len(fields) != 3 {
		return "", nil, &MalformedLineError{Line: lineNo, Text: line, Reason: "selector needs category:property:pattern"}
	}

	category, err := ParseCategory(fields[0])
	if err != nil {
		return "", nil, &UnknownCategoryError{Label: fields[0], Selector: selector, Line: lineNo}
	}

	entry, err := NewEntry(category, fields[1], fields[2], propsJSON)
	if err != nil {
		return "", nil, &MalformedLineError{Line: lineNo, Text: line, Reason: "invalid property set", Err: err}
	}

	return UnescapePattern(fields[2]), entry, nil
}

// Render writes the header followed by one line per entry in Store order.
// Nothing is returned unless every entry renders.
func (s *Store) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(SectionHeader)
	buf.WriteByte('\n')

	for _, k := range s.keys {
		line, err := s.entries[k].Line()
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", k, err)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
