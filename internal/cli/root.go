// Package cli provides the command-line interface for shiplift.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shiplift/shiplift/internal/logging"
)

var (
	// Global flags
	cfgFile    string
	forgeToken string
	tokenFile  string // Path to file containing the forge token
	forgeURL   string
	verbose    bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version information - set by main package at startup
// The actual version is injected via LDFLAGS for release builds;
// cmd/shiplift/main.go carries the fallback.
var (
	Version   = "v1.2.0-dev"
	BuildTime = "unknown"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shiplift",
		Short: "Ship release assets between a software forge and object storage",
		Long: `shiplift ` + Version + ` - Built: ` + BuildTime + `
Moves build artifacts between a software forge and object storage.

Typical CI usage:

  # Copy the latest release tarball into an S3 deployment bucket
  shiplift deploy --repo acme/tool --pattern '*.tar.gz' --bucket releases --subfolder stable

  # Pull the latest release binary onto a host
  shiplift fetch --repo acme/tool --pattern 'tool_linux_amd64'

  # Publish a release and attach assets
  shiplift release create --repo acme/tool --tag v1.2.0 dist/tool.tar.gz

  # Mirror a build output directory into a bucket prefix
  shiplift sync ./public --bucket www --subfolder site

Credentials:
  The forge token comes from --token, --token-file, the config file, or
  GITHUB_TOKEN. Storage credentials come from flags, AWS_* environment
  variables, or the config file, and are passed only to the storage
  client; they are never logged or written anywhere.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger
			logger = logging.NewDefaultLogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&forgeToken, "token", "", "Forge access token (overrides all other sources)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Path to file containing the forge token")
	rootCmd.PersistentFlags().StringVar(&forgeURL, "forge-url", "", "Forge API base URL for GitHub Enterprise (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())

	// Set up signal handling for graceful cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Loop to handle repeated signals (e.g. Ctrl+C pressed twice)
	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newReleaseCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context is cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		// Fallback to background context if called before Execute()
		return context.Background()
	}
	return rootContext
}

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shiplift %s (built %s)\n", Version, BuildTime)
		},
	}
}
