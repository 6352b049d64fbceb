package effort

import (
	"regexp"
	"strconv"

	"github.com/rohankatakam/sprint-commits/internal/git"
)

// DefaultMessageWidth is how many runes of each commit message an issue keeps
const DefaultMessageWidth = 60

var issuePattern = regexp.MustCompile(`#(\d+)`)

// ExtractIssueIDs returns every "#<digits>" token in message, in order.
// Repeated tokens are returned once per occurrence.
func ExtractIssueIDs(message string) []string {
	matches := issuePattern.FindAllStringSubmatch(message, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// Analyzer groups commits by issue identifier
type Analyzer struct {
	messageWidth int
}

// NewAnalyzer creates an Analyzer keeping messageWidth runes per message
func NewAnalyzer(messageWidth int) *Analyzer {
	if messageWidth <= 0 {
		messageWidth = DefaultMessageWidth
	}
	return &Analyzer{messageWidth: messageWidth}
}

// Analyze groups commits with the default message width
func Analyze(commits []git.Commit) *Analysis {
	return NewAnalyzer(DefaultMessageWidth).Analyze(commits)
}

// Analyze groups commits by issue and computes weighted days.
// A commit naming several issues adds its full line count to each of them.
func (a *Analyzer) Analyze(commits []git.Commit) *Analysis {
	result := &Analysis{
		Issues: make(map[string]*Issue),
		Daily:  make(map[string]*DailyTotal),
	}

	for _, c := range commits {
		ids := ExtractIssueIDs(c.Message)
		if len(ids) == 0 {
			result.Untagged = append(result.Untagged, UntaggedCommit{
				Date:    c.Date,
				Message: c.Message,
				Lines:   c.Lines,
			})
			continue
		}

		for _, id := range ids {
			issue, ok := result.Issues[id]
			if !ok {
				issue = &Issue{
					ID:          id,
					Dates:       make(map[string]bool),
					LinesByDate: make(map[string]int),
				}
				result.Issues[id] = issue
				result.Order = append(result.Order, id)
			}
			issue.Dates[c.Date] = true
			issue.Commits++
			issue.Lines += c.Lines
			issue.Messages = append(issue.Messages, Truncate(c.Message, a.messageWidth))
			issue.LinesByDate[c.Date] += c.Lines

			day, ok := result.Daily[c.Date]
			if !ok {
				day = &DailyTotal{Issues: make(map[string]int)}
				result.Daily[c.Date] = day
			}
			day.add(id, c.Lines)
		}
	}

	for _, issue := range result.Issues {
		issue.WeightedDays = weightedDays(issue, result.Daily)
	}

	return result
}

// DayWeight is the share of day's changed lines that belong to id.
// A day with no changed lines gives full credit.
func DayWeight(day *DailyTotal, id string) float64 {
	if day == nil || day.TotalLines == 0 {
		return 1.0
	}
	return float64(day.Issues[id]) / float64(day.TotalLines)
}

func weightedDays(issue *Issue, daily map[string]*DailyTotal) float64 {
	var total float64
	for _, date := range issue.SortedDates() {
		total += DayWeight(daily[date], issue.ID)
	}
	return Round2(total)
}

// Round2 rounds v to two decimal places. Exact ties go to the even digit
// (0.125 -> 0.12, 0.875 -> 0.88).
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Truncate keeps at most width runes of s
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
