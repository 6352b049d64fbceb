package git

import (
	"regexp"
	"strconv"
	"strings"
)

// Commit is one parsed block of log output
type Commit struct {
	Date    string // calendar day, YYYY-MM-DD
	Message string // subject line
	Lines   int    // insertions + deletions
}

var (
	insertionPattern = regexp.MustCompile(`(\d+) insertion`)
	deletionPattern  = regexp.MustCompile(`(\d+) deletion`)
)

// block accumulates one commit while scanning
type block struct {
	date, message       string
	hasDate, hasMessage bool
	lines               int
}

func (b *block) add(line string) {
	switch {
	case !b.hasDate:
		b.date = strings.TrimSpace(line)
		b.hasDate = true
	case !b.hasMessage:
		b.message = strings.TrimSpace(line)
		b.hasMessage = true
	default:
		b.lines += matchCount(insertionPattern, line)
		b.lines += matchCount(deletionPattern, line)
	}
}

func (b *block) complete() bool {
	return b.date != "" && b.message != ""
}

func matchCount(re *regexp.Regexp, line string) int {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ParseLog splits git log output into commits.
// Text before the first delimiter is ignored and blocks without a date or
// message are dropped. Lines that match nothing contribute nothing.
func ParseLog(output string) []Commit {
	var commits []Commit
	var current *block

	flush := func() {
		if current != nil && current.complete() {
			commits = append(commits, Commit{
				Date:    current.date,
				Message: current.message,
				Lines:   current.lines,
			})
		}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if line == CommitDelimiter {
			flush()
			current = &block{}
			continue
		}

		if current != nil {
			current.add(line)
		}
	}
	flush()

	return commits
}
