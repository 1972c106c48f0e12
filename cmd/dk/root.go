package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/config"
	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg *config.Config
)

// Command group IDs for organizing help output
const (
	GroupGit    = "git"
	GroupImage  = "image"
	GroupMedia  = "media"
	GroupFiles  = "files"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dk",
	Short: "Mnemonic wrappers around everyday command-line tools",
	Long: `dk bundles short, memorable commands around the tools you already
have installed: git, ImageMagick, zip/tar, openssl, and yt-dlp.

Each command validates its input, shows what it runs with --verbose,
and keeps stdout clean for piping.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are only parsed now, so the logger must be built here
		// rather than in Execute.
		ctx := cmd.Context()
		ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
		ctx = output.WithPrinter(ctx, os.Stdout)
		cmd.SetContext(ctx)
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	// Create context with signal handling; the logger and printer are
	// attached after flag parsing in PersistentPreRunE
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'dk -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Run the root hook above even when a command group defines its own
	// PersistentPreRunE (git, ssl, media)
	cobra.EnableTraverseRunHooks = true

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGit, Title: "Git Commands:"},
		&cobra.Group{ID: GroupImage, Title: "Image Commands:"},
		&cobra.Group{ID: GroupMedia, Title: "Media Commands:"},
		&cobra.Group{ID: GroupFiles, Title: "File Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Git commands
	rootCmd.AddCommand(newGitCmd())

	// Image commands
	rootCmd.AddCommand(newImageCmd())
	rootCmd.AddCommand(newBriaCmd())

	// Media commands
	rootCmd.AddCommand(newMediaCmd())

	// File commands
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newFileCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newSSLCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
