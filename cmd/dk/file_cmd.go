package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/files"
	"github.com/funnyzak/dk/internal/hashes"
	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/output"
)

func newFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "file",
		Short:   "Hash, dedupe, and batch-rename files",
		Aliases: []string{"f"},
		GroupID: GroupFiles,
	}

	cmd.AddCommand(newFileHashCmd())
	cmd.AddCommand(newFileDupesCmd())
	cmd.AddCommand(newFileRenameCmd())

	return cmd
}

func newFileHashCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print fast content hashes",
		Args:  cobra.MinimumNArgs(1),
		Long: `Print a fast non-cryptographic content hash (xxh3-128) per file,
for spotting identical files and verifying copies.`,
		Example: `  dk file hash photo.jpg
  dk file hash *.iso
  dk file hash release.tar.gz --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			var last string
			for _, path := range args {
				sum, err := hashes.File(path)
				if err != nil {
					return err
				}
				out.Printf("%s  %s\n", sum, path)
				last = sum
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(last); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Println("Copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the (last) hash to the clipboard")
	return cmd
}

func newFileDupesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupes [dir]",
		Short: "Find duplicate files by content",
		Args:  cobra.MaximumNArgs(1),
		Example: `  dk file dupes
  dk file dupes ~/Downloads`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			ctx := cmd.Context()
			stop := startSpinner("Hashing files...")
			groups, err := hashes.Dupes(root)
			stop()
			if err != nil {
				return err
			}

			logger := log.FromContext(ctx)
			if len(groups) == 0 {
				logger.Println("No duplicates found")
				return nil
			}

			out := output.FromContext(ctx)
			for _, g := range groups {
				out.Printf("%s (%d bytes)\n", g.Hash, g.Size)
				for _, p := range g.Paths {
					out.Printf("  %s\n", p)
				}
			}
			logger.Printf("%d duplicate groups\n", len(groups))
			return nil
		},
	}

	return cmd
}

func newFileRenameCmd() *cobra.Command {
	var (
		useRegexp bool
		dryRun    bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "rename <pattern> <replacement> [dir]",
		Short: "Batch-rename files by substring or regexp",
		Args:  cobra.RangeArgs(2, 3),
		Long: `Batch-rename files in a directory.

By default the pattern is a plain substring. With --regexp it is a Go
regular expression and the replacement may use $1 group references.
Renames that would collide or produce invalid names are rejected
before anything is touched.`,
		Example: `  dk file rename ' ' '_'                        # Spaces to underscores
  dk file rename --regexp 'IMG_(\d+)' 'photo_$1'
  dk file rename .jpeg .jpg ~/Pictures --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, replacement := args[0], args[1]
			dir := "."
			if len(args) > 2 {
				dir = args[2]
			}

			plans, err := files.PlanRename(dir, pattern, replacement, useRegexp)
			if err != nil {
				return err
			}

			logger := log.FromContext(cmd.Context())
			if len(plans) == 0 {
				logger.Println("Nothing to rename")
				return nil
			}

			for _, p := range plans {
				logger.Printf("  %s -> %s\n", p.From, p.To)
			}
			if dryRun {
				logger.Printf("Would rename %d files (dry run)\n", len(plans))
				return nil
			}

			ok, err := confirm(fmt.Sprintf("Rename %d files?", len(plans)), yes)
			if err != nil {
				return err
			}
			if !ok {
				logger.Println("Aborted")
				return nil
			}

			if err := files.ApplyRename(plans); err != nil {
				return err
			}
			logger.Printf("Renamed %d files\n", len(plans))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&useRegexp, "regexp", "E", false, "Treat the pattern as a regular expression")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be renamed")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
