package effort

import "sort"

// Issue aggregates every commit that referenced one issue identifier
type Issue struct {
	ID           string // digits only, no leading '#'
	Dates        map[string]bool
	Commits      int
	Lines        int
	Messages     []string
	LinesByDate  map[string]int
	WeightedDays float64
}

// SortedDates returns the active days in ascending order
func (i *Issue) SortedDates() []string {
	dates := make([]string, 0, len(i.Dates))
	for d := range i.Dates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// ActiveDays is the number of distinct days the issue was touched
func (i *Issue) ActiveDays() int {
	return len(i.Dates)
}

// FirstDate is the earliest active day
func (i *Issue) FirstDate() string {
	dates := i.SortedDates()
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}

// Shared reports whether any active day was shared with other issues
func (i *Issue) Shared() bool {
	return i.WeightedDays < float64(i.ActiveDays())
}

// UntaggedCommit is a commit whose message names no issue
type UntaggedCommit struct {
	Date    string
	Message string
	Lines   int
}

// DailyTotal holds per-issue line counts for one calendar day.
// IssueOrder keeps the order in which issues first appeared that day.
type DailyTotal struct {
	Issues     map[string]int
	IssueOrder []string
	TotalLines int
}

func (d *DailyTotal) add(id string, lines int) {
	if _, ok := d.Issues[id]; !ok {
		d.IssueOrder = append(d.IssueOrder, id)
	}
	d.Issues[id] += lines
	d.TotalLines += lines
}

// Analysis is the result of grouping commits by issue
type Analysis struct {
	Issues   map[string]*Issue
	Order    []string // issue ids in first-seen order
	Untagged []UntaggedCommit
	Daily    map[string]*DailyTotal
}

// SortedIssues returns the issues ordered by earliest active day.
// Ties keep first-seen order.
func (a *Analysis) SortedIssues() []*Issue {
	issues := make([]*Issue, 0, len(a.Order))
	for _, id := range a.Order {
		if issue, ok := a.Issues[id]; ok {
			issues = append(issues, issue)
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].FirstDate() < issues[j].FirstDate()
	})
	return issues
}

// SortedDays returns the days with any tagged activity in ascending order
func (a *Analysis) SortedDays() []string {
	days := make([]string, 0, len(a.Daily))
	for d := range a.Daily {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// WorkingDays returns the distinct active days across the kept issues
func (a *Analysis) WorkingDays() []string {
	seen := make(map[string]bool)
	for _, issue := range a.Issues {
		for d := range issue.Dates {
			seen[d] = true
		}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
