package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/buildinfo"
	"github.com/bridgegad/bridgegad/pkg/cache"
	"github.com/bridgegad/bridgegad/pkg/config"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bridgegad"

	// defaultBase is the output stem when no parameter file names one.
	defaultBase = "bridge_gad"
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
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "BridgeGAD draws bridge general arrangement drawings from parameters",
		Long: `BridgeGAD turns a small set of bridge parameters (spans, levels, pier and
abutment sizes) into a general arrangement drawing with elevation, plan,
dimensions and title block, written as DXF, SVG, PDF or JSON.`,
		Version:       buildinfo.Current(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bridgegad/bridgegad.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads .env and the config file. It runs before every command.
func (c *CLI) loadConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use: a file cache unless
// noCache, and the SQLite history unless noArchive.
func (c *CLI) newRunner(noCache, noArchive bool) *pipeline.Runner {
	runner := pipeline.NewRunner(c.newCache(noCache), nil, c.Logger)
	if noArchive || c.config.Archive.Disabled {
		return runner
	}
	store, err := c.openHistory()
	if err != nil {
		c.Logger.Warn("drawing history disabled", "err", err)
		return runner
	}
	runner.Archive = store
	return runner
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := config.CacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// openHistory opens the local SQLite drawing archive.
func (c *CLI) openHistory() (*archive.SQLiteStore, error) {
	path, err := c.config.ArchivePath()
	if err != nil {
		return nil, err
	}
	return archive.OpenSQLite(path)
}
