package git

import (
	"context"
	"strings"

	"github.com/rohankatakam/sprint-commits/internal/errors"
)

// CommitDelimiter starts every commit block in the log output
const CommitDelimiter = "COMMIT_START"

// LogOptions selects the commits to fetch
type LogOptions struct {
	Since    string // required, YYYY-MM-DD
	Until    string // optional
	Branch   string // optional, current branch when empty
	RepoPath string // optional, working directory when empty
}

// Fetcher runs git log and returns its raw text
type Fetcher struct {
	runner Runner
	binary string
}

// NewFetcher creates a Fetcher. A nil runner uses ExecRunner and an empty
// binary uses "git" from PATH.
func NewFetcher(runner Runner, binary string) *Fetcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if binary == "" {
		binary = "git"
	}
	return &Fetcher{runner: runner, binary: binary}
}

// LogArgs builds the git log arguments for opts.
// Output per commit is the delimiter, the short author date, the subject
// and the --stat block.
func LogArgs(opts LogOptions) []string {
	args := []string{
		"log",
		"--format=" + CommitDelimiter + "%n%ad%n%s",
		"--date=short",
		"--stat",
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}
	args = append(args, "--since="+opts.Since)
	if opts.Until != "" {
		args = append(args, "--until="+opts.Until)
	}
	return args
}

// FetchLog executes git log with summary statistics and returns stdout.
// There is no retry; any process failure is returned as an external error.
func (f *Fetcher) FetchLog(ctx context.Context, opts LogOptions) (string, error) {
	if strings.TrimSpace(opts.Since) == "" {
		return "", errors.ValidationError("start date is required")
	}

	output, err := f.runner.Run(ctx, opts.RepoPath, f.binary, LogArgs(opts)...)
	if err != nil {
		e := errors.ExternalError(err, "git log failed").
			WithContext("since", opts.Since)
		if opts.Branch != "" {
			e.WithContext("branch", opts.Branch)
		}
		return "", e
	}
	return string(output), nil
}
