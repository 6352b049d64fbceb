package main

import (
	"fmt"
	"os"

	"github.com/rohankatakam/sprint-commits/internal/config"
	"github.com/rohankatakam/sprint-commits/internal/git"
	"github.com/rohankatakam/sprint-commits/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd(git.ExecRunner{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by the root command and its subcommands
type app struct {
	runner  git.Runner
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *logrus.Entry

	since  string
	until  string
	branch string
	issues string
	repo   string
}

func newRootCmd(runner git.Runner) *cobra.Command {
	a := &app{runner: runner}

	rootCmd := &cobra.Command{
		Use:   "sprint-commits",
		Short: "Estimate effort per issue from git history",
		Long: `sprint-commits reads git log over a date range, attributes changed lines
to the issue numbers (#123) in commit subjects, and prints a markdown report
for sprint retrospectives. Days shared by several issues are split in
proportion to the lines each issue changed that day.

Examples:
  sprint-commits --since 2025-12-02 --branch develop
  sprint-commits --since 2025-12-02 --until 2025-12-17
  sprint-commits --since 2025-12-02 --issues 223,228,124`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runAnalyze,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: .sprint-commits/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVar(&a.since, "since", "", "start date (YYYY-MM-DD), required")
	rootCmd.Flags().StringVar(&a.until, "until", "", "end date (YYYY-MM-DD), defaults to now")
	rootCmd.Flags().StringVar(&a.branch, "branch", "", "branch to analyze, defaults to the current branch")
	rootCmd.Flags().StringVar(&a.issues, "issues", "", "comma-separated issue numbers to focus on (e.g. 223,228,124)")
	rootCmd.Flags().StringVar(&a.repo, "repo", "", "repository path, defaults to the working directory")
	rootCmd.MarkFlagRequired("since")

	rootCmd.SetVersionTemplate(`sprint-commits {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(newConfigCmd(a))
	return rootCmd
}

// setup loads configuration and builds the logger before any command runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	bootCfg := logging.DefaultConfig(a.verbose)
	bootCfg.Output = cmd.ErrOrStderr()
	bootstrap, err := logging.NewLogger(bootCfg)
	if err != nil {
		return err
	}

	a.cfg, err = config.Load(a.cfgFile)
	if err != nil {
		if a.cfgFile != "" {
			return err
		}
		bootstrap.WithError(err).Warn("Failed to load config, using defaults")
		a.cfg = config.Default()
	}

	result := a.cfg.Validate()
	for _, warning := range result.Warnings {
		bootstrap.Warn(warning)
	}
	if err := result.Err(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:   a.cfg.Logging.Level,
		Format:  a.cfg.Logging.Format,
		Verbose: a.verbose,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.log = logging.WithRun(logger)
	return nil
}
