package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Header is the stream-properties section header.
const Header = "[stream-properties]"

// Line builds an Output/Audio line matching application.name with the
// given per-channel volume on FL and FR.
func Line(app, volume string) string {
	return `Output/Audio:application.name:` + strings.ReplaceAll(app, " ", `\s`) +
		`={"volume":1.0,"mute":false,"channelMap":["FL","FR"],"channelVolumes":[` + volume + `,` + volume + `]}`
}

// StateFile joins lines under the header, newline-terminated.
func StateFile(lines ...string) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteStateFile writes content to a fresh stream-properties file in a
// temp dir and returns its path.
func WriteStateFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream-properties")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write state file: %v", err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
