// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config and builds the logger, APOD client, and resolver shared by subcommands

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/apod/internal/config"
	"github.com/harper/apod/internal/fetch"
	"github.com/harper/apod/internal/resolve"
)

// skipRuntime marks commands that run without config, client, or resolver.
const skipRuntime = "apod/skip-runtime"

var (
	apiKeyFlag   string
	timezoneFlag string
	debugFlag    bool

	cfg      *config.Config
	logger   *log.Logger
	resolver *resolve.Resolver
)

var rootCmd = &cobra.Command{
	Use:   "apod",
	Short: "NASA Astronomy Picture of the Day in your terminal",
	Long: `
 █████╗ ██████╗  ██████╗ ██████╗
██╔══██╗██╔══██╗██╔═══██╗██╔══██╗
███████║██████╔╝██║   ██║██║  ██║
██╔══██║██╔═══╝ ██║   ██║██║  ██║
██║  ██║██║     ╚██████╔╝██████╔╝
╚═╝  ╚═╝╚═╝      ╚═════╝ ╚═════╝

NASA's Astronomy Picture of the Day for humans and AI agents.

Browse pictures day by day, fall back to the latest published
picture automatically, and expose it all via MCP for Claude.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipRuntime] == "true" {
			return nil
		}
		return initRuntime(cmd.ErrOrStderr())
	},
}

// Execute runs the root command with a context canceled on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "NASA API key (default: $NASA_API_KEY or DEMO_KEY)")
	rootCmd.PersistentFlags().StringVar(&timezoneFlag, "tz", "", "IANA timezone that decides what today is (default: local)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging on stderr")
}

func initRuntime(logOut io.Writer) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	if timezoneFlag != "" {
		cfg.Timezone = timezoneFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = newLogger(logOut, cfg, debugFlag)

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	client := fetch.NewClient(cfg.GetAPIKey(), cfg.ClientOptions(logger)...)
	resolver = resolve.New(client,
		resolve.WithLocation(loc),
		resolve.WithLogger(logger),
	)

	logger.Debug("runtime ready", "base_url", cfg.GetBaseURL(), "timezone", loc.String())
	return nil
}

func newLogger(w io.Writer, c *config.Config, debug bool) *log.Logger {
	level := c.GetLogLevel()
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "apod",
	})
}
