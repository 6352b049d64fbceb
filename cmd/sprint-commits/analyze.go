package main

import (
	"context"
	"fmt"

	"github.com/rohankatakam/sprint-commits/internal/config"
	"github.com/rohankatakam/sprint-commits/internal/effort"
	"github.com/rohankatakam/sprint-commits/internal/git"
	"github.com/rohankatakam/sprint-commits/internal/output"
	"github.com/spf13/cobra"
)

const noCommitsMessage = "No commits found in the specified range."

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if err := config.ValidateDate("since", a.since); err != nil {
		return err
	}
	if a.until != "" {
		if err := config.ValidateDate("until", a.until); err != nil {
			return err
		}
	}

	opts := git.LogOptions{
		Since:    a.since,
		Until:    a.until,
		Branch:   firstNonEmpty(a.branch, a.cfg.Git.Branch),
		RepoPath: firstNonEmpty(a.repo, a.cfg.Git.RepoPath),
	}

	fetcher := git.NewFetcher(a.runner, a.cfg.Git.Binary)
	log := a.log.WithField("since", opts.Since)

	if opts.Branch != "" {
		log = log.WithField("branch", opts.Branch)
	}

	log.Debug("Fetching git log")
	raw, err := fetcher.FetchLog(ctx, opts)
	if err != nil {
		return err
	}

	commits := git.ParseLog(raw)
	log.WithField("commits", len(commits)).Debug("Parsed git log")

	if len(commits) == 0 {
		fmt.Fprintln(out, noCommitsMessage)
		return nil
	}

	if err := output.WriteHeader(out, len(commits), a.since, a.until); err != nil {
		return err
	}

	analysis := effort.NewAnalyzer(a.cfg.Report.IssueMessageWidth).Analyze(commits)
	if a.issues != "" {
		focus := effort.ParseIssueList(a.issues)
		analysis = analysis.Filter(focus)
		log.WithField("issues", focus).Debug("Filtered issues")
	}

	formatter := output.NewMarkdownFormatter(output.Options{
		BarScale:      a.cfg.Report.BarScale,
		BarMax:        a.cfg.Report.BarMax,
		UntaggedWidth: a.cfg.Report.UntaggedMessageWidth,
		DiaryPath:     a.cfg.Report.DiaryPath,
	})
	if err := formatter.Format(analysis, out); err != nil {
		return err
	}

	return formatter.WriteFooter(out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
