package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rohankatakam/sprint-commits/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides (SPRINT_COMMITS_GIT_BRANCH, ...)
const EnvPrefix = "SPRINT_COMMITS"

// Config holds all configuration settings
type Config struct {
	Git     GitConfig     `mapstructure:"git" yaml:"git"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type GitConfig struct {
	Binary   string `mapstructure:"binary" yaml:"binary"`
	RepoPath string `mapstructure:"repo_path" yaml:"repo_path"`
	Branch   string `mapstructure:"branch" yaml:"branch"`
}

type ReportConfig struct {
	BarScale             int    `mapstructure:"bar_scale" yaml:"bar_scale"` // changed lines per bar block
	BarMax               int    `mapstructure:"bar_max" yaml:"bar_max"`
	IssueMessageWidth    int    `mapstructure:"issue_message_width" yaml:"issue_message_width"`
	UntaggedMessageWidth int    `mapstructure:"untagged_message_width" yaml:"untagged_message_width"`
	DiaryPath            string `mapstructure:"diary_path" yaml:"diary_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Git: GitConfig{
			Binary: "git",
		},
		Report: ReportConfig{
			BarScale:             100,
			BarMax:               20,
			IssueMessageWidth:    60,
			UntaggedMessageWidth: 50,
			DiaryPath:            "docs/Sprint-Estimation-Diary.md",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from file, .env files and the environment.
// A missing config file is not an error; an explicit path that cannot be
// read is.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".sprint-commits")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".sprint-commits"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ConfigError(err, "failed to read config").
				WithContext("path", path)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ConfigError(err, "failed to unmarshal config")
	}

	cfg.Git.RepoPath = expandPath(cfg.Git.RepoPath)
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("git.binary", cfg.Git.Binary)
	v.SetDefault("git.repo_path", cfg.Git.RepoPath)
	v.SetDefault("git.branch", cfg.Git.Branch)
	v.SetDefault("report.bar_scale", cfg.Report.BarScale)
	v.SetDefault("report.bar_max", cfg.Report.BarMax)
	v.SetDefault("report.issue_message_width", cfg.Report.IssueMessageWidth)
	v.SetDefault("report.untagged_message_width", cfg.Report.UntaggedMessageWidth)
	v.SetDefault("report.diary_path", cfg.Report.DiaryPath)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// loadEnvFiles loads .env files in order of precedence.
// godotenv never overrides variables that are already set, so the first
// file to define a key wins.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		homeEnvFile := filepath.Join(homeDir, ".sprint-commits", ".env")
		if _, err := os.Stat(homeEnvFile); err == nil {
			godotenv.Load(homeEnvFile)
		}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// YAML renders the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
