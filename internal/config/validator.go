package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rohankatakam/sprint-commits/internal/errors"
)

// DateLayout is the calendar day format git prints with --date=short
const DateLayout = "2006-01-02"

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}
	return sb.String()
}

// Err converts a failed result into a validation error, or nil
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ValidationError(strings.TrimSpace(vr.Error()))
}

// Validate checks the git, report and logging settings
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	if c.Git.Binary == "" {
		result.AddError("git.binary must not be empty")
	}

	if c.Report.BarScale <= 0 {
		result.AddError("report.bar_scale must be positive, got %d", c.Report.BarScale)
	}
	if c.Report.BarMax < 0 {
		result.AddError("report.bar_max must not be negative, got %d", c.Report.BarMax)
	}
	if c.Report.IssueMessageWidth <= 0 {
		result.AddError("report.issue_message_width must be positive, got %d", c.Report.IssueMessageWidth)
	}
	if c.Report.UntaggedMessageWidth <= 0 {
		result.AddError("report.untagged_message_width must be positive, got %d", c.Report.UntaggedMessageWidth)
	}
	if c.Report.DiaryPath == "" {
		result.AddWarning("report.diary_path is empty, footer hint will be omitted")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		result.AddError("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return result
}

// ValidateDate checks that value is a YYYY-MM-DD calendar day
func ValidateDate(flag, value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return errors.ValidationErrorf("invalid --%s %q: expected YYYY-MM-DD", flag, value)
	}
	return nil
}
