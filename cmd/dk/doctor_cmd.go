package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/doctor"
	"github.com/funnyzak/dk/internal/output"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   "Check that the wrapped tools are installed",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Check that the external tools dk wraps are installed.

Each missing tool is listed with what it is needed for and where to
get it. Exits with an error when anything is missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			statuses := doctor.Run()

			for _, s := range statuses {
				if s.Found {
					out.Printf("✓ %s (%s)\n", s.Tool.Name, s.Path)
				} else {
					out.Printf("✗ %s - needed for %s\n", s.Tool.Name, s.Tool.Purpose)
					out.Printf("    install: %s\n", s.Tool.Hint)
				}
			}

			if missing := doctor.Missing(statuses); missing > 0 {
				return fmt.Errorf("%d of %d tools missing", missing, len(statuses))
			}
			out.Println()
			out.Println("All tools installed")
			return nil
		},
	}
}
