package main

import (
	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/archive"
	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/output"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "archive",
		Short:   "Pack, unpack, and peek into archives",
		Aliases: []string{"ar"},
		GroupID: GroupFiles,
		Long: `Pack, unpack, and peek into archives.

The archive file name decides the format: .zip, .tar.gz/.tgz,
.tar.xz, .tar.bz2, or .tar. Uses the zip/unzip and tar binaries.`,
	}

	cmd.AddCommand(newArchivePackCmd())
	cmd.AddCommand(newArchiveUnpackCmd())
	cmd.AddCommand(newArchivePeekCmd())

	return cmd
}

func newArchivePackCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pack <archive> <source>...",
		Short: "Create an archive from files and directories",
		Args:  cobra.MinimumNArgs(2),
		Example: `  dk archive pack backup.tar.gz ./src ./docs
  dk archive pack photos.zip *.jpg
  dk archive pack -f release.tar.xz ./dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, sources := args[0], args[1:]
			ctx := cmd.Context()
			if err := archive.Pack(ctx, name, sources, force); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Packed %d sources into %s\n", len(sources), name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing archive")
	return cmd
}

func newArchiveUnpackCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "unpack <archive>",
		Short: "Extract an archive",
		Args:  cobra.ExactArgs(1),
		Example: `  dk archive unpack backup.tar.gz
  dk archive unpack photos.zip -d ./photos`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if dest == "" {
				dest = "."
			}
			ctx := cmd.Context()
			if err := archive.Unpack(ctx, name, dest); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Unpacked %s into %s\n", name, dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory (default: current directory)")
	return cmd
}

func newArchivePeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "peek <archive>",
		Short:   "List an archive's contents without extracting",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listing, err := archive.List(ctx, args[0])
			if err != nil {
				return err
			}
			output.FromContext(ctx).Print(listing)
			return nil
		},
	}
}
