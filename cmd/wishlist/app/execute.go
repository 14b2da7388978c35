package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/wishlist/cmd/wishlist/cmd/catalog"
	"github.com/agentstation/wishlist/cmd/wishlist/cmd/items"
	"github.com/agentstation/wishlist/cmd/wishlist/cmd/serve"
	"github.com/agentstation/wishlist/internal/cmd/output"
	"github.com/agentstation/wishlist/pkg/logging"
	"github.com/agentstation/wishlist/pkg/storage"
)

// rootFlags are the persistent flags. They are applied over the loaded
// configuration only when set on the command line.
type rootFlags struct {
	configFile  string
	verbose     bool
	quiet       bool
	noColor     bool
	format      string
	logLevel    string
	storage     string
	storagePath string
}

// Execute runs the wishlist CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "wishlist",
		Short:   "Wishlist of storefront products and services",
		Version: a.version,
		Long: `Wishlist keeps a persistent list of favorite products and services
from the storefront catalog.

The wishlist is saved after every change and loaded again on the next run.
It can be managed from the command line or served over HTTP with live
change streams.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "server", Title: "Server Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.wishlist.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: table, json, yaml, wide")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&flags.storage, "storage", "", "storage driver: sqlite, files, memory")
	pf.StringVar(&flags.storagePath, "storage-path", "", "sqlite database file or files directory")

	rootCmd.SetVersionTemplate("wishlist {{.Version}}\n")
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, flags *rootFlags) error {
	if flags.configFile != "" {
		config, err := LoadConfig(flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	changed := cmd.Flags().Changed
	if changed("verbose") {
		a.config.Verbose = flags.verbose
	}
	if changed("quiet") {
		a.config.Quiet = flags.quiet
	}
	if changed("no-color") {
		a.config.NoColor = flags.noColor
	}
	if changed("format") {
		if _, err := output.ParseFormat(flags.format); err != nil {
			return err
		}
		a.config.Format = flags.format
	}
	if changed("log-level") {
		a.config.LogLevel = flags.logLevel
	}
	if changed("storage") {
		driver, err := storage.ParseDriver(flags.storage)
		if err != nil {
			return err
		}
		a.config.StorageDriver = driver
	}
	if changed("storage-path") {
		a.config.StoragePath = flags.storagePath
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(items.NewListCommand(a))
	rootCmd.AddCommand(items.NewAddCommand(a))
	rootCmd.AddCommand(items.NewRemoveCommand(a))
	rootCmd.AddCommand(items.NewClearCommand(a))
	rootCmd.AddCommand(catalog.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.ServerConfig))
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("wishlist %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// ExitOnError prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
