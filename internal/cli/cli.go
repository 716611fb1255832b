package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cyzmcl/Lunarian/pkg/cache"
	"github.com/cyzmcl/Lunarian/pkg/config"
	"github.com/cyzmcl/Lunarian/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lunarian"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config flag.
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the config file named by --config (or the default path)
// and the environment.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPathOrDefault(), "cache", cfg.Cache.Backend)
	return cfg, nil
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	p, _ := config.DefaultPath()
	return p
}

// newRunner creates a pipeline runner for CLI use. noCache disables the
// artifact and hero caches for this invocation.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	return pipeline.Setup(ctx, cfg, c.Logger)
}

// closeRunner releases runner resources, logging failures.
func (c *CLI) closeRunner(r *pipeline.Runner) {
	if err := r.Close(context.Background()); err != nil {
		c.Logger.Warn("close runner", "err", err)
	}
}
