package main

import (
	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/fetch"
	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/ui"
)

func newFetchCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:     "fetch <url>",
		Short:   "Download a file over HTTP",
		GroupID: GroupFiles,
		Args:    cobra.ExactArgs(1),
		Long: `Download a file over HTTP with a progress bar.

The destination name comes from the URL unless -o is given. Downloads
go through a .part file, so an interrupted transfer never leaves a
truncated destination.`,
		Example: `  dk fetch https://example.com/release.tar.gz
  dk fetch https://example.com/model.bin -o models/base.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			dest := fetch.OutputName(url, out)

			ctx := cmd.Context()
			var (
				bar      *ui.ProgressBar
				progress fetch.Progress
			)
			if interactive() && !quiet {
				// The bar is created on the first callback, once the
				// content length is known.
				progress = func(written, total int64) {
					if bar == nil {
						bar = ui.NewProgressBar(dest, total)
					}
					bar.Set(written)
				}
				defer func() {
					if bar != nil {
						bar.Finish()
					}
				}()
			}

			if err := fetch.Download(ctx, url, dest, force, progress); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Saved %s (%s)\n", dest, fetch.Describe(url))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Destination file (default: URL file name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing destination")
	return cmd
}
