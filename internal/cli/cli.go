// Package cli implements the orgtree command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgtree/pkg/buildinfo"
	"github.com/matzehuels/orgtree/pkg/cache"
	"github.com/matzehuels/orgtree/pkg/config"
	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/pipeline"
	"github.com/matzehuels/orgtree/pkg/source"
	"github.com/matzehuels/orgtree/pkg/source/file"
	"github.com/matzehuels/orgtree/pkg/source/mongo"
	"github.com/matzehuels/orgtree/pkg/source/rest"
)

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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// verbose reports whether debug logging is enabled.
func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "orgtree",
		Short: "Orgtree builds organization charts from reporting relationships",
		Long: `Orgtree turns flat lists of positions and reporting relationships into a
single-rooted organization tree. Cycles, orphaned relationships and
unreachable groups are kept visible in the output instead of failing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/orgtree/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg

	// --verbose wins over the configured level.
	if lvl, err := cfg.LogLevel(); err == nil && !c.verbose() {
		c.SetLogLevel(lvl)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(ctx, cfg, noCache, c.Logger)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	if cfg.Cache.TTL > 0 {
		runner.TTL = cfg.Cache.TTL
	}
	return runner, nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Kind {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			Prefix:   config.AppName + ":",
		})
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			logger.Warn("caching disabled: no cache directory", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Loader Factory
// =============================================================================

// newLoader returns the loader for an explicit input path, or the source
// configured in cfg when path is empty. The returned close func is never nil.
func newLoader(ctx context.Context, cfg config.Config, path string, logger *log.Logger) (source.Loader, func() error, error) {
	noop := func() error { return nil }
	if path != "" {
		return file.New(path), noop, nil
	}

	switch cfg.Source.Kind {
	case source.KindMongo:
		l, err := mongo.New(ctx, mongo.Config{URI: cfg.Source.URI, Database: cfg.Source.Database})
		if err != nil {
			return nil, noop, err
		}
		return l, l.Close, nil
	case source.KindREST:
		l, err := rest.New(rest.Config{BaseURL: cfg.Source.BaseURL, Token: cfg.Source.Token, Logger: logger})
		if err != nil {
			return nil, noop, err
		}
		return l, noop, nil
	default:
		if cfg.Source.Path == "" {
			return nil, noop, errors.New(errors.ErrCodeInvalidInput,
				"no input: pass a file, use - for stdin, or set [source] path in the config")
		}
		return file.New(cfg.Source.Path), noop, nil
	}
}
