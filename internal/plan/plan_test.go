package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wpvol/internal/engine"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writePlan(t, `
file: state/stream-properties
tasks:
  - app_name: Firefox
    volume: 0.6
    description: browser a bit quieter
  - app_name: Music Player
    volume: 1
  - app_name: muted
    volume: 0
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "state", "stream-properties"), p.File)
	assert.Equal(t, []engine.Request{
		{AppName: "Firefox", Volume: 0.6, Description: "browser a bit quieter"},
		{AppName: "Music Player", Volume: 1.0},
		{AppName: "muted", Volume: 0},
	}, p.Requests())
}

func TestLoad_AbsoluteFileKept(t *testing.T) {
	p, err := Load(writePlan(t, "file: /var/state/stream-properties\ntasks:\n  - app_name: vlc\n    volume: 0.5\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/state/stream-properties", p.File)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidPlan))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ""},
		{"unknown key", "tasks:\n  - app_name: vlc\n    volume: 0.5\n    colume: 1\n"},
		{"no tasks", "tasks: []\n"},
		{"tasks missing", "file: x\n"},
		{"volume too high", "tasks:\n  - app_name: vlc\n    volume: 1.5\n"},
		{"volume negative", "tasks:\n  - app_name: vlc\n    volume: -0.1\n"},
		{"volume missing", "tasks:\n  - app_name: vlc\n"},
		{"volume not a number", "tasks:\n  - app_name: vlc\n    volume: loud\n"},
		{"empty app name", "tasks:\n  - app_name: \"\"\n    volume: 0.5\n"},
		{"app name missing", "tasks:\n  - volume: 0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse("plan.yaml", []byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrInvalidPlan), "got %v", err)
		})
	}
}

func TestParse_SchemaErrorNamesField(t *testing.T) {
	_, err := Parse("plan.yaml", []byte("tasks:\n  - app_name: vlc\n    volume: 1.5\n"))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.NotEmpty(t, ve.Details)
	assert.Contains(t, ve.Error(), "volume")
}
