package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohankatakam/sprint-commits/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `COMMIT_START
2025-12-03
Wire exporter #11

 export.go | 40 ++++
 1 file changed, 40 insertions(+)
COMMIT_START
2025-12-02
Start importer #10

 import.go | 50 +++++
 1 file changed, 45 insertions(+), 5 deletions(-)
COMMIT_START
2025-12-02
Start exporter #11

 export.go | 50 +++++
 1 file changed, 50 insertions(+)
COMMIT_START
2025-12-02
fix typo

 README.md | 3 +--
 1 file changed, 1 insertion(+), 2 deletions(-)
`

// scriptedRunner answers log invocations and records every call
type scriptedRunner struct {
	log    string
	logErr error
	calls  [][]string
}

func (r *scriptedRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, args)
	if args[0] != "log" {
		return nil, fmt.Errorf("unexpected command %v", args)
	}
	if r.logErr != nil {
		return nil, r.logErr
	}
	return []byte(r.log), nil
}

func (r *scriptedRunner) logCall() []string {
	for _, c := range r.calls {
		if c[0] == "log" {
			return c
		}
	}
	return nil
}

func execute(t *testing.T, runner *scriptedRunner, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd(runner)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootPrintsReport(t *testing.T) {
	runner := &scriptedRunner{log: sampleLog}

	out, _, err := execute(t, runner, "--since", "2025-12-02")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Found 4 commits from 2025-12-02 to now\n"))
	assert.Contains(t, out, "| #10 | 2025-12-02 | 2025-12-02 | 1 | 0.5* | 50 | 1 |")
	assert.Contains(t, out, "| #11 | 2025-12-02 | 2025-12-03 | 2 | 1.5* | 90 | 2 |")
	assert.Contains(t, out, "| 2025-12-02 | #10, #11 | #10: 50 (50%), #11: 50 (50%) |")
	assert.Contains(t, out, "| 2025-12-02 | 3 | fix typo |")
	assert.Contains(t, out, "- **Utilization:** 100%")
	assert.True(t, strings.HasSuffix(out, "Copy the tables above into docs/Sprint-Estimation-Diary.md\n"+strings.Repeat("=", 90)+"\n"))

	assert.Equal(t, []string{
		"log", "--format=COMMIT_START%n%ad%n%s", "--date=short", "--stat", "--since=2025-12-02",
	}, runner.logCall())
}

func TestRootPassesBranchAndUntil(t *testing.T) {
	runner := &scriptedRunner{log: sampleLog}

	out, _, err := execute(t, runner, "--since", "2025-12-02", "--until", "2025-12-17", "--branch", "develop")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 4 commits from 2025-12-02 to 2025-12-17")

	assert.Equal(t, []string{
		"log", "--format=COMMIT_START%n%ad%n%s", "--date=short", "--stat", "develop",
		"--since=2025-12-02", "--until=2025-12-17",
	}, runner.logCall())
	assert.Len(t, runner.calls, 1)
}

func TestRootSpawnsSingleProcess(t *testing.T) {
	runner := &scriptedRunner{log: sampleLog}

	_, _, err := execute(t, runner, "--since", "2025-12-01", "-v")
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "log", runner.calls[0][0])
}

func TestRootNoCommits(t *testing.T) {
	out, _, err := execute(t, &scriptedRunner{log: ""}, "--since", "2025-12-02")
	require.NoError(t, err)
	assert.Equal(t, noCommitsMessage+"\n", out)
}

func TestRootGitFailure(t *testing.T) {
	runner := &scriptedRunner{logErr: fmt.Errorf("exit status 128 (stderr: fatal: bad revision 'nope')")}

	out, _, err := execute(t, runner, "--since", "2025-12-02", "--branch", "nope")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))
	assert.Contains(t, err.Error(), "bad revision")
	assert.Empty(t, out)
}

func TestRootRejectsBadDates(t *testing.T) {
	tests := [][]string{
		{"--since", "last week"},
		{"--since", "2025-12-02", "--until", "17/12/2025"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			runner := &scriptedRunner{log: sampleLog}
			_, _, err := execute(t, runner, args...)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
			assert.Empty(t, runner.calls)
		})
	}
}

func TestRootRequiresSince(t *testing.T) {
	_, _, err := execute(t, &scriptedRunner{log: sampleLog})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "since")
}

func TestRootIssueFilter(t *testing.T) {
	out, _, err := execute(t, &scriptedRunner{log: sampleLog}, "--since", "2025-12-02", "--issues", "10,999")
	require.NoError(t, err)

	assert.Contains(t, out, "| #10 |")
	assert.NotContains(t, out, "| #11 |")
	assert.NotContains(t, out, "999")
	// Untagged commits are never filtered.
	assert.Contains(t, out, "| 2025-12-02 | 3 | fix typo |")
}

func TestRootVerboseLogsToStderr(t *testing.T) {
	out, errOut, err := execute(t, &scriptedRunner{log: sampleLog}, "--since", "2025-12-02", "-v")
	require.NoError(t, err)

	assert.Contains(t, errOut, "Fetching git log")
	assert.Contains(t, errOut, "run_id=")
	assert.NotContains(t, out, "Fetching git log")
}

func TestRootUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("git:\n  branch: release\nreport:\n  diary_path: notes.md\n"), 0644))

	runner := &scriptedRunner{log: sampleLog}
	out, _, err := execute(t, runner, "--config", path, "--since", "2025-12-02")
	require.NoError(t, err)

	assert.Contains(t, runner.logCall(), "release")
	assert.Contains(t, out, "Copy the tables above into notes.md")
}

func TestRootEmptyDiaryPathWarnsAndDropsHint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  diary_path: \"\"\n"), 0644))

	runner := &scriptedRunner{log: sampleLog}
	out, stderr, err := execute(t, runner, "--config", path, "--since", "2025-12-02")
	require.NoError(t, err)

	assert.Contains(t, stderr, "report.diary_path is empty")
	assert.Contains(t, stderr, "level=warning")
	assert.NotContains(t, out, "Copy the tables above")
	banner := strings.Repeat("=", 90)
	assert.True(t, strings.HasSuffix(out, "\n"+banner+"\n"+banner+"\n"))
}

func TestConfigCommand(t *testing.T) {
	out, _, err := execute(t, &scriptedRunner{}, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "bar_scale: 100")
	assert.Contains(t, out, "binary: git")
}
