package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rohankatakam/sprint-commits/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	output string
	err    error
	calls  []recordedCall
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, recordedCall{dir: dir, name: name, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output), nil
}

func TestLogArgs(t *testing.T) {
	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{
			name: "since only",
			opts: LogOptions{Since: "2025-12-02"},
			want: []string{"log", "--format=COMMIT_START%n%ad%n%s", "--date=short", "--stat", "--since=2025-12-02"},
		},
		{
			name: "branch and until",
			opts: LogOptions{Since: "2025-12-02", Until: "2025-12-17", Branch: "develop"},
			want: []string{"log", "--format=COMMIT_START%n%ad%n%s", "--date=short", "--stat", "develop", "--since=2025-12-02", "--until=2025-12-17"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogArgs(tt.opts))
		})
	}
}

func TestFetchLog(t *testing.T) {
	runner := &fakeRunner{output: "COMMIT_START\n2025-12-02\nfix #1\n"}
	f := NewFetcher(runner, "")

	out, err := f.FetchLog(context.Background(), LogOptions{Since: "2025-12-02", RepoPath: "/srv/repo"})
	require.NoError(t, err)
	assert.Equal(t, runner.output, out)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "git", runner.calls[0].name)
	assert.Equal(t, "/srv/repo", runner.calls[0].dir)
}

func TestFetchLogRequiresSince(t *testing.T) {
	runner := &fakeRunner{}
	f := NewFetcher(runner, "git")

	_, err := f.FetchLog(context.Background(), LogOptions{Since: "  "})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
	assert.Empty(t, runner.calls)
}

func TestFetchLogPropagatesProcessError(t *testing.T) {
	cause := fmt.Errorf("exit status 128 (stderr: fatal: bad revision 'nope')")
	f := NewFetcher(&fakeRunner{err: cause}, "git")

	_, err := f.FetchLog(context.Background(), LogOptions{Since: "2025-12-02", Branch: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.IsFatal(err))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "nope", e.Context["branch"])
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "", "definitely-not-a-real-binary-sprint")
	assert.Error(t, err)
}

// TestFetchLogRealRepository runs against a throwaway repository.
// Skipped when git is not installed.
func TestFetchLogRealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	gitEnv := append(os.Environ(),
		"GIT_AUTHOR_DATE=2025-12-02T10:00:00",
		"GIT_COMMITTER_DATE=2025-12-02T10:00:00",
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = gitEnv
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("a\nb\nc\n"), 0644))
	run("add", "notes.txt")
	run("-c", "user.email=test@example.com", "-c", "user.name=Test User", "commit", "-q", "-m", "Add notes #42")

	f := NewFetcher(nil, "")
	out, err := f.FetchLog(context.Background(), LogOptions{Since: "2025-01-01", RepoPath: dir})
	require.NoError(t, err)

	commits := ParseLog(out)
	require.Len(t, commits, 1)
	assert.Equal(t, Commit{Date: "2025-12-02", Message: "Add notes #42", Lines: 3}, commits[0])

	_, err = f.FetchLog(context.Background(), LogOptions{Since: "2025-01-01", Branch: "no-such-branch", RepoPath: dir})
	assert.Error(t, err)
}
