package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/actionviz/internal/config"
	"github.com/matzehuels/actionviz/pkg/cache"
	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/render/style"
	"github.com/matzehuels/actionviz/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "actionviz"

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

	// cfgFile is the --config flag.
	cfgFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig layers the config file, environment and the changed flags of
// cmd. A verbose setting from any layer raises the log level.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
		registerLogHooks(c.Logger)
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	return cfg, nil
}

// =============================================================================
// Backends
// =============================================================================

// newCache opens the artifact cache: Redis when configured, else the file
// cache, else (with --no-cache or no usable directory) the null cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.NoCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis != "" {
		c.Logger.Debug("connecting to redis")
		return cache.NewRedisCache(ctx, cfg.Redis)
	}
	dir := cfg.CacheDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newStore opens the snapshot store: MongoDB when configured, else the
// file store under the user config directory.
func (c *CLI) newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Mongo != "" {
		c.Logger.Debug("connecting to mongodb", "database", cfg.MongoDatabase)
		return store.NewMongoStore(ctx, cfg.Mongo, cfg.MongoDatabase)
	}
	return store.NewFileStore("")
}

// loadTable returns the default style table with the configured theme
// applied, and a hash that identifies the theme in cache keys.
func loadTable(cfg *config.Config) (style.Table, string, error) {
	table := style.Default()
	if cfg.Theme == "" {
		return table, "", nil
	}
	data, err := os.ReadFile(cfg.Theme)
	if err != nil {
		return style.Table{}, "", errors.Wrap(errors.ErrCodeInvalidTheme, err, "read theme %s", cfg.Theme)
	}
	th, err := style.ParseTheme(data)
	if err != nil {
		return style.Table{}, "", err
	}
	return th.Apply(table), cache.Hash(data), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/actionviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
