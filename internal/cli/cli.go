// Package cli implements the fracdex command-line interface.
//
// Key commands (between, midpoint, inc, dec, validate, approx) are pure and
// need no configuration. The list commands keep ordered lists in Redis and
// need a Redis URL from the config file or FRACDEX_REDIS_URL.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ntauth/fracdex/v2"
	"github.com/ntauth/fracdex/v2/internal/config"
	"github.com/ntauth/fracdex/v2/orderlist"
	"github.com/ntauth/fracdex/v2/orderlist/redisstore"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	jitterRange int
	seed        int64
	cfg         *config.Config

	// store overrides the Redis store; tests use it.
	store orderlist.Store
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "fracdex",
		Short:        "fracdex generates fractional index keys",
		Long:         `fracdex generates order keys that sort lexicographically, so an item can always be placed between two others without renumbering its siblings.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fracdex/config.toml)")
	root.PersistentFlags().IntVar(&c.jitterRange, "jitter", 0, "randomize new digits by up to this many steps")
	root.PersistentFlags().Int64Var(&c.seed, "seed", 0, "seed for --jitter (0 picks a random seed)")

	root.AddCommand(c.betweenCommand())
	root.AddCommand(c.midpointCommand())
	root.AddCommand(c.incCommand())
	root.AddCommand(c.decCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.approxCommand())
	root.AddCommand(c.listCommand())

	return root
}

// loadConfig reads the config and lets explicit flags override it.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("jitter") {
		cfg.JitterRange = c.jitterRange
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = c.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "jitter", cfg.JitterRange, "seed", cfg.Seed, "redis", cfg.RedisURL != "")
	return nil
}

// jitter returns the configured jitter source.
func (c *CLI) jitter() fracdex.Jitter {
	if c.cfg.Seed != 0 {
		return fracdex.NewRandJitter(c.cfg.Seed)
	}
	return fracdex.RandJitter{}
}

var errNoRedis = errors.New("no Redis URL configured: set redis_url in the config file or FRACDEX_REDIS_URL")

// service returns an orderlist service and a function releasing its store.
func (c *CLI) service(ctx context.Context) (*orderlist.Service, func(), error) {
	opts := []orderlist.Option{
		orderlist.WithLogger(c.Logger),
		orderlist.WithJitter(c.jitter(), c.cfg.JitterRange),
		orderlist.WithMaxKeyLength(c.cfg.MaxKeyLength),
	}
	if c.store != nil {
		return orderlist.NewService(c.store, opts...), func() {}, nil
	}
	if c.cfg.RedisURL == "" {
		return nil, nil, errNoRedis
	}
	client, err := redisstore.NewClient(ctx, c.cfg.RedisURL, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	store := redisstore.New(client, c.cfg.RedisPrefix)
	return orderlist.NewService(store, opts...), func() { _ = client.Close() }, nil
}
