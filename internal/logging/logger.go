package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Config holds logger configuration
type Config struct {
	Level   string // "debug", "info", "warn", "error"
	Format  string // "text" or "json"
	Verbose bool   // forces debug level
	Output  io.Writer
}

// DefaultConfig returns a sensible default configuration.
// Logs go to stderr so the markdown report on stdout stays clean.
func DefaultConfig(verbose bool) Config {
	return Config{
		Level:   "info",
		Format:  "text",
		Verbose: verbose,
		Output:  os.Stderr,
	}
}

// NewLogger creates a logrus logger from the given configuration
func NewLogger(config Config) (*logrus.Logger, error) {
	logger := logrus.New()

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if config.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(config.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
		level = parsed
	}
	if config.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    !isTerminal(out),
			DisableTimestamp: true,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", config.Format)
	}

	return logger, nil
}

// WithRun returns an entry tagged with a fresh run id
func WithRun(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("run_id", uuid.NewString())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
