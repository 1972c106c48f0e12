package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/media"
	"github.com/funnyzak/dk/internal/output"
	"github.com/funnyzak/dk/internal/ui"
)

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "media",
		Short:   "Download video and audio with yt-dlp",
		Aliases: []string{"m"},
		GroupID: GroupMedia,
		Long: `Download video and audio with yt-dlp.

Downloads land in media.output_dir from the config (or the current
directory) and are recorded in a local history database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// history reads the local database only
			if cmd.Name() == "history" {
				return nil
			}
			return media.Check()
		},
	}

	cmd.AddCommand(newMediaGrabCmd())
	cmd.AddCommand(newMediaAudioCmd())
	cmd.AddCommand(newMediaPlaylistCmd())
	cmd.AddCommand(newMediaHistoryCmd())

	return cmd
}

// grabParams merges flags with config defaults.
func grabParams(url, outputDir, format string, playlist bool) media.GrabParams {
	if outputDir == "" {
		outputDir = cfg.Media.OutputDir
	}
	if format == "" {
		format = cfg.Media.Format
	}
	return media.GrabParams{
		URL:         url,
		OutputDir:   outputDir,
		Format:      format,
		AudioFormat: cfg.Media.AudioFormat,
		Playlist:    playlist,
	}
}

// runGrab downloads and records the result. History failures are logged,
// never fatal: a broken database must not block downloads.
func runGrab(cmd *cobra.Command, p media.GrabParams) error {
	ctx := cmd.Context()
	if err := media.ValidateURL(p.URL); err != nil {
		return err
	}
	if err := media.Grab(ctx, p); err != nil {
		return err
	}

	logger := log.FromContext(ctx)
	if err := recordGrab(p); err != nil {
		logger.Debug("history record failed", "err", err)
	}
	logger.Printf("Done (%s)\n", p.Mode())
	return nil
}

func recordGrab(p media.GrabParams) error {
	path, err := media.DefaultHistoryPath()
	if err != nil {
		return err
	}
	hist, err := media.OpenHistory(path)
	if err != nil {
		return err
	}
	defer hist.Close()
	return hist.Record(media.Entry{URL: p.URL, Mode: p.Mode(), OutputDir: p.OutputDir})
}

func newMediaGrabCmd() *cobra.Command {
	var (
		outputDir string
		format    string
		playlist  bool
	)

	cmd := &cobra.Command{
		Use:   "grab <url>",
		Short: "Download a video",
		Args:  cobra.ExactArgs(1),
		Example: `  dk media grab https://youtu.be/xxxx
  dk media grab <url> -o ~/Videos -f 'bestvideo+bestaudio'
  dk media grab <playlist-url> --playlist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrab(cmd, grabParams(args[0], outputDir, format, playlist))
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "yt-dlp format selector")
	cmd.Flags().BoolVar(&playlist, "playlist", false, "Download the whole playlist, not just this video")
	return cmd
}

func newMediaAudioCmd() *cobra.Command {
	var (
		outputDir   string
		audioFormat string
		playlist    bool
	)

	cmd := &cobra.Command{
		Use:   "audio <url>",
		Short: "Download audio only",
		Args:  cobra.ExactArgs(1),
		Example: `  dk media audio https://youtu.be/xxxx
  dk media audio <url> --audio-format opus`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := grabParams(args[0], outputDir, "", playlist)
			p.AudioOnly = true
			if audioFormat != "" {
				p.AudioFormat = audioFormat
			}
			return runGrab(cmd, p)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&audioFormat, "audio-format", "", "Audio format: mp3, m4a, opus, ... (default from config)")
	cmd.Flags().BoolVar(&playlist, "playlist", false, "Download the whole playlist, not just this video")
	return cmd
}

func newMediaPlaylistCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "List the videos in a playlist",
		Args:  cobra.ExactArgs(1),
		Example: `  dk media playlist 'https://youtube.com/playlist?list=PLxxxx'
  dk media playlist <url> --json | jq -r '.[].url'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := media.PlaylistItems(ctx, args[0])
			if err != nil {
				return err
			}

			out := output.FromContext(ctx)
			if asJSON {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{item.ID, item.Title})
			}
			out.Print(ui.RenderTable([]string{"ID", "TITLE"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print machine-readable JSON")
	return cmd
}

func newMediaHistoryCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := media.DefaultHistoryPath()
			if err != nil {
				return err
			}
			hist, err := media.OpenHistory(path)
			if err != nil {
				return err
			}
			defer hist.Close()

			entries, err := hist.Recent(limit)
			if err != nil {
				return err
			}

			out := output.FromContext(cmd.Context())
			if asJSON {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Format("2006-01-02 15:04"),
					e.Mode,
					e.URL,
				})
			}
			out.Print(ui.RenderTable([]string{"WHEN", "MODE", "URL"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print machine-readable JSON")
	return cmd
}
