package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rohankatakam/sprint-commits/internal/effort"
)

const dayLayout = "2006-01-02"

// MarkdownFormatter writes the sprint report as markdown tables
type MarkdownFormatter struct {
	opts Options
}

// NewMarkdownFormatter creates a formatter. A non-positive scale or width and
// a negative bar length fall back to DefaultOptions.
func NewMarkdownFormatter(opts Options) *MarkdownFormatter {
	def := DefaultOptions()
	if opts.BarScale <= 0 {
		opts.BarScale = def.BarScale
	}
	if opts.BarMax < 0 {
		opts.BarMax = def.BarMax
	}
	if opts.UntaggedWidth <= 0 {
		opts.UntaggedWidth = def.UntaggedWidth
	}
	return &MarkdownFormatter{opts: opts}
}

// Format renders the full report. The output is a pure function of the
// analysis and the options.
func (f *MarkdownFormatter) Format(a *effort.Analysis, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(banner() + "\n")
	sb.WriteString("SPRINT COMMIT ANALYSIS (Weighted by Lines Changed)\n")
	sb.WriteString(banner() + "\n")

	totalWeighted := f.writeIssueTable(&sb, a)
	f.writeSharedDays(&sb, a)
	f.writeUntagged(&sb, a)
	f.writeSummary(&sb, a, totalWeighted)

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteFooter prints the closing banner and, when a diary path is
// configured, the hint to copy the tables into it.
func (f *MarkdownFormatter) WriteFooter(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("\n" + banner() + "\n")
	if f.opts.DiaryPath != "" {
		fmt.Fprintf(&sb, "Copy the tables above into %s\n", f.opts.DiaryPath)
	}
	sb.WriteString(banner() + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *MarkdownFormatter) writeIssueTable(sb *strings.Builder, a *effort.Analysis) float64 {
	sb.WriteString("\n### Commits by Issue\n\n")
	sb.WriteString("| Issue | First | Last | Active Days | Weighted Days | Lines | Commits |\n")
	sb.WriteString("|-------|-------|------|-------------|---------------|-------|---------|\n")

	var totalWeighted float64
	var totalLines, totalCommits int

	for _, issue := range a.SortedIssues() {
		dates := issue.SortedDates()
		totalWeighted += issue.WeightedDays
		totalLines += issue.Lines
		totalCommits += issue.Commits

		marker := ""
		if issue.Shared() {
			marker = "*"
		}
		fmt.Fprintf(sb, "| #%s | %s | %s | %d | %s%s | %d | %d |\n",
			issue.ID, dates[0], dates[len(dates)-1], len(dates),
			formatWeighted(issue.WeightedDays), marker, issue.Lines, issue.Commits)
	}

	fmt.Fprintf(sb, "| **TOTAL** | | | | **%.1f** | **%d** | **%d** |\n", totalWeighted, totalLines, totalCommits)
	sb.WriteString("\n*\\* Weighted < Active Days indicates day shared with other issues*\n")
	return totalWeighted
}

func (f *MarkdownFormatter) writeSharedDays(sb *strings.Builder, a *effort.Analysis) {
	sb.WriteString("\n### Daily Breakdown (Shared Days)\n\n")
	sb.WriteString("| Date | Issues | Lines Distribution |\n")
	sb.WriteString("|------|--------|-------------------|\n")

	for _, date := range a.SortedDays() {
		day := a.Daily[date]
		if len(day.Issues) <= 1 {
			continue
		}

		ids := make([]string, 0, len(day.IssueOrder))
		dist := make([]string, 0, len(day.IssueOrder))
		for _, id := range day.IssueOrder {
			lines := day.Issues[id]
			ids = append(ids, "#"+id)
			dist = append(dist, fmt.Sprintf("#%s: %d (%.0f%%)", id, lines, percent(lines, day.TotalLines)))
		}
		fmt.Fprintf(sb, "| %s | %s | %s |\n", date, strings.Join(ids, ", "), strings.Join(dist, ", "))
	}
}

func (f *MarkdownFormatter) writeUntagged(sb *strings.Builder, a *effort.Analysis) {
	if len(a.Untagged) == 0 {
		return
	}

	sb.WriteString("\n### Untagged Commits (need attribution)\n\n")
	sb.WriteString("| Date | Lines | Message |\n")
	sb.WriteString("|------|-------|---------|\n")
	for _, c := range a.Untagged {
		msg := effort.Truncate(c.Message, f.opts.UntaggedWidth)
		if msg != c.Message {
			msg += "..."
		}
		fmt.Fprintf(sb, "| %s | %d | %s |\n", c.Date, c.Lines, msg)
	}
}

func (f *MarkdownFormatter) writeSummary(sb *strings.Builder, a *effort.Analysis, totalWeighted float64) {
	days := a.WorkingDays()
	if len(days) == 0 {
		return
	}

	first, last := days[0], days[len(days)-1]
	calendar := CalendarDays(first, last)

	sb.WriteString("\n### Working Days Summary\n\n")
	fmt.Fprintf(sb, "- **Total unique working days:** %d\n", len(days))
	fmt.Fprintf(sb, "- **Total weighted days:** %.1f\n", totalWeighted)
	fmt.Fprintf(sb, "- **Date range:** %s to %s\n", first, last)
	fmt.Fprintf(sb, "- **Calendar days:** %d\n", calendar)
	fmt.Fprintf(sb, "- **Utilization:** %.0f%%\n", Utilization(len(days), calendar))

	sb.WriteString("\n### Daily Activity\n\n")
	sb.WriteString("```\n")
	for _, date := range days {
		sb.WriteString(f.activityLine(a, date) + "\n")
	}
	sb.WriteString("```\n")
}

type dayEntry struct {
	id    string
	lines int
}

func (f *MarkdownFormatter) activityLine(a *effort.Analysis, date string) string {
	var entries []dayEntry
	for _, id := range a.Order {
		issue, ok := a.Issues[id]
		if !ok || !issue.Dates[date] {
			continue
		}
		entries = append(entries, dayEntry{id: id, lines: issue.LinesByDate[date]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].lines > entries[j].lines
	})

	total := 0
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		total += e.lines
		parts = append(parts, fmt.Sprintf("#%s(%d)", e.id, e.lines))
	}

	return fmt.Sprintf("%s: %s %s", date, f.bar(total), strings.Join(parts, ", "))
}

func (f *MarkdownFormatter) bar(lines int) string {
	n := lines / f.opts.BarScale
	if n > f.opts.BarMax {
		n = f.opts.BarMax
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

// CalendarDays counts the days from first to last inclusive.
// Unparseable dates count as a single day.
func CalendarDays(first, last string) int {
	start, err := time.Parse(dayLayout, first)
	if err != nil {
		return 1
	}
	end, err := time.Parse(dayLayout, last)
	if err != nil {
		return 1
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Utilization is working days as a percentage of calendar days
func Utilization(working, calendar int) float64 {
	if calendar <= 0 {
		return 0
	}
	return float64(working) / float64(calendar) * 100
}

// percent of total; a zero total renders as 0%
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// formatWeighted prints the shortest decimal form with at least one
// fractional digit (1 -> "1.0", 0.5 -> "0.5", 2.33 -> "2.33").
func formatWeighted(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
