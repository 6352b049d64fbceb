package output

import (
	"fmt"
	"io"
	"strings"
)

const bannerWidth = 90

// Options controls the report layout
type Options struct {
	BarScale      int    // changed lines per bar block
	BarMax        int    // longest bar, in blocks
	UntaggedWidth int    // runes of untagged messages before "..."
	DiaryPath     string // named by WriteFooter; omitted when empty
}

// DefaultOptions returns the standard report layout
func DefaultOptions() Options {
	return Options{
		BarScale:      100,
		BarMax:        20,
		UntaggedWidth: 50,
		DiaryPath:     "docs/Sprint-Estimation-Diary.md",
	}
}

func banner() string {
	return strings.Repeat("=", bannerWidth)
}

// WriteHeader prints the commit count line shown before the report
func WriteHeader(w io.Writer, commits int, since, until string) error {
	end := "now"
	if until != "" {
		end = until
	}
	_, err := fmt.Fprintf(w, "Found %d commits from %s to %s\n", commits, since, end)
	return err
}
