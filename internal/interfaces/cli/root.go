package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/PrazoCerto/internal/app"
	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/client"
	apperrors "github.com/turtacn/PrazoCerto/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
	APIKey       string
}

// CLIContext carries initialized dependencies through the command tree. The
// backend is built on first use so that commands such as version and migrate
// never open stores they do not need.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	NoColor      bool

	opts    *RootOptions
	once    sync.Once
	backend Backend
	err     error
	app     *app.App
}

// Backend returns the engine the commands talk to: a remote server when
// --server is set, otherwise an in-process service built from the config.
func (c *CLIContext) Backend(ctx context.Context) (Backend, error) {
	c.once.Do(func() {
		if c.opts.ServerAddr != "" {
			var api *client.Client
			api, c.err = client.NewClient(c.opts.ServerAddr, c.opts.APIKey,
				client.WithTimeout(c.opts.Timeout),
				client.WithUserAgent("prazo-cli/"+Version))
			if c.err == nil {
				c.backend = NewRemoteBackend(api)
			}
			return
		}
		c.app, c.err = app.New(ctx, c.Config, c.Logger, app.WithoutRedis())
		if c.err == nil {
			c.backend = NewLocalBackend(c.app.Service, c.app.Writer, c.Logger)
		}
	})
	return c.backend, c.err
}

// Close releases the in-process runtime, if one was built.
func (c *CLIContext) Close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "prazo",
		Short: "PrazoCerto CLI — cálculo de prazos processuais",
		Long: "prazo computes Brazilian procedural deadlines against the judicial calendar,\n" +
			"classifies court days, detects deadline conflicts and manages the\n" +
			"calendar and catalog. Without --server it runs the engine in-process.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliCtx, err := GetCLIContext(cmd); err == nil {
				cliCtx.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./config.yaml, ~/.prazo/config.yaml, /etc/prazo/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table, ics)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "PrazoCerto API server address; empty runs the engine locally")
	pf.StringVar(&opts.APIKey, "api-key", os.Getenv("PRAZO_API_KEY"), "API key sent to --server")

	cmd.AddCommand(
		newComputeCmd(),
		newClassifyCmd(),
		newConflictsCmd(),
		newCatalogCmd(),
		newCalendarCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json", "table", "ics":
	default:
		return fmt.Errorf("unsupported output format %q (text, json, table, ics)", opts.OutputFormat)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		opts:         opts,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
// A missing config file is not an error for the CLI; env and defaults apply.
func initConfig(opts *RootOptions) (*config.Config, error) {
	envFiles := config.WithEnvFiles(".env")
	if opts.ConfigPath != "" {
		return config.Load(config.WithConfigPath(opts.ConfigPath), envFiles)
	}

	searchPaths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".prazo"))
	}
	searchPaths = append(searchPaths, "/etc/prazo")

	cfg, err := config.Load(config.WithSearchPaths(searchPaths...), envFiles)
	if errors.Is(err, config.ErrConfigFileNotFound) {
		return config.Load(envFiles)
	}
	return cfg, err
}

// initLogger creates a logger configured for CLI usage (output to stderr).
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, apperrors.InvalidParam("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, apperrors.InvalidParam("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// backendFor resolves the CLI context and its backend, bounding ctx by
// --timeout. The returned cancel func must be called.
func backendFor(cmd *cobra.Command) (context.Context, context.CancelFunc, *CLIContext, Backend, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	if cliCtx.opts.Timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(cmd.Context(), cliCtx.opts.Timeout)
	}
	b, err := cliCtx.Backend(ctx)
	if err != nil {
		cancel()
		return nil, nil, nil, nil, err
	}
	return ctx, cancel, cliCtx, b, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

//Personal.AI order the ending
