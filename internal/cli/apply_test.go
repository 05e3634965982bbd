package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wpvol/internal/engine"
	"github.com/roach88/wpvol/internal/testutil"
)

func writePlan(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyCommand_AppliesTasksInOrder(t *testing.T) {
	statePath := testutil.WriteStateFile(t, testutil.StateFile(
		testutil.Line("firefox", "1.0"),
		testutil.Line("vlc", "0.5"),
	))
	planPath := writePlan(t, t.TempDir(), `
tasks:
  - app_name: vlc
    volume: 0.5
  - app_name: Music Player
    volume: 0.8
  - app_name: firefox
    volume: 0.3
    description: browser quieter
`)
	opts := &RootOptions{Format: "text", File: statePath, RunIDs: engine.NewFixedGenerator("run-1")}

	out, err := execute(t, NewApplyCommand(opts), planPath)

	require.NoError(t, err)
	assert.Equal(t,
		"ok: "+engine.MessageUnchanged+"\n"+
			"changed: The channel volume for \"Music Player\" has been set\n"+
			"changed: The channel volume for \"firefox\" has been set\n",
		out)
	assert.Equal(t, testutil.StateFile(
		testutil.Line("firefox", "0.3"),
		testutil.Line("vlc", "0.5"),
		testutil.Line("Music Player", "0.8"),
	), testutil.ReadFile(t, statePath))
}

func TestApplyCommand_PlanFileRelativeToPlan(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "stream-properties")
	require.NoError(t, os.WriteFile(statePath, []byte(testutil.StateFile(testutil.Line("vlc", "1.0"))), 0o644))
	planPath := writePlan(t, dir, `
file: stream-properties
tasks:
  - app_name: vlc
    volume: 0.4
`)
	opts := &RootOptions{Format: "json", RunIDs: engine.NewFixedGenerator("run-1")}

	out, err := execute(t, NewApplyCommand(opts), planPath)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ApplyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, statePath, resp.Data.File)
	assert.True(t, resp.Data.Changed)
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, "run-1", resp.Data.Results[0].RunID)

	assert.Equal(t, testutil.StateFile(testutil.Line("vlc", "0.4")), testutil.ReadFile(t, statePath))
}

func TestApplyCommand_FileFlagOverridesPlan(t *testing.T) {
	statePath := testutil.WriteStateFile(t, testutil.StateFile(testutil.Line("vlc", "1.0")))
	planPath := writePlan(t, t.TempDir(), `
file: /nonexistent/stream-properties
tasks:
  - app_name: vlc
    volume: 0.4
`)
	opts := &RootOptions{Format: "text", File: statePath, RunIDs: engine.NewFixedGenerator("run-1")}

	_, err := execute(t, NewApplyCommand(opts), planPath)

	require.NoError(t, err)
	assert.Equal(t, testutil.StateFile(testutil.Line("vlc", "0.4")), testutil.ReadFile(t, statePath))
}

func TestApplyCommand_InvalidTaskRejectsPlan(t *testing.T) {
	content := testutil.StateFile(testutil.Line("vlc", "1.0"))
	statePath := testutil.WriteStateFile(t, content)
	planPath := writePlan(t, t.TempDir(), `
tasks:
  - app_name: vlc
    volume: 0.4
  - app_name: firefox
    volume: 1.5
`)
	opts := &RootOptions{Format: "json", File: statePath, RunIDs: engine.NewFixedGenerator("run-1")}

	out, err := execute(t, NewApplyCommand(opts), planPath)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidPlan, resp.Error.Code)
	assert.Equal(t, content, testutil.ReadFile(t, statePath))
}

func TestApplyCommand_UnknownPlanKey(t *testing.T) {
	statePath := testutil.WriteStateFile(t, testutil.StateFile())
	planPath := writePlan(t, t.TempDir(), `
tasks:
  - app_name: vlc
    volume: 0.4
    mute: true
`)
	opts := &RootOptions{Format: "text", File: statePath}

	out, err := execute(t, NewApplyCommand(opts), planPath)

	require.Error(t, err)
	assert.Contains(t, out, "Error [E006]")
}

func TestApplyCommand_Check(t *testing.T) {
	content := testutil.StateFile(testutil.Line("vlc", "1.0"))
	statePath := testutil.WriteStateFile(t, content)
	planPath := writePlan(t, t.TempDir(), `
tasks:
  - app_name: vlc
    volume: 0.1
`)
	opts := &RootOptions{Format: "text", File: statePath, RunIDs: engine.NewFixedGenerator("run-1")}

	out, err := execute(t, NewApplyCommand(opts), planPath, "--check")

	require.NoError(t, err)
	assert.Contains(t, out, "changed (check):")
	assert.Equal(t, content, testutil.ReadFile(t, statePath))
}

func TestApplyCommand_MissingPlan(t *testing.T) {
	opts := &RootOptions{Format: "text", File: filepath.Join(t.TempDir(), "stream-properties")}

	out, err := execute(t, NewApplyCommand(opts), filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}
