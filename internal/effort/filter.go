package effort

import "strings"

// ParseIssueList splits a comma-separated filter such as "223, #228,124".
// Blank entries are skipped and a leading '#' is optional.
func ParseIssueList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimPrefix(strings.TrimSpace(part), "#")
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Filter returns a copy of the analysis keeping only the named issues.
// Unknown identifiers are ignored. Untagged commits and daily totals are
// shared with the receiver unchanged.
func (a *Analysis) Filter(ids []string) *Analysis {
	if len(ids) == 0 {
		return a
	}

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	filtered := &Analysis{
		Issues:   make(map[string]*Issue),
		Untagged: a.Untagged,
		Daily:    a.Daily,
	}
	for _, id := range a.Order {
		if keep[id] {
			filtered.Issues[id] = a.Issues[id]
			filtered.Order = append(filtered.Order, id)
		}
	}
	return filtered
}
