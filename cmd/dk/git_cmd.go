package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/git"
	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/output"
	"github.com/funnyzak/dk/internal/ui"
)

func newGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "git",
		Short:   "Shortcuts for everyday git operations",
		Aliases: []string{"g"},
		GroupID: GroupGit,
		Long: `Shortcuts for everyday git operations in the current repository.

All commands run the git binary and surface its errors unchanged.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := git.Check(); err != nil {
				return err
			}
			if !git.IsInsideRepo(cmd.Context(), ".") {
				return fmt.Errorf("not inside a git repository")
			}
			return nil
		},
	}

	cmd.AddCommand(newGitBranchesCmd())
	cmd.AddCommand(newGitUndoCmd())
	cmd.AddCommand(newGitSyncCmd())
	cmd.AddCommand(newGitSquashCmd())
	cmd.AddCommand(newGitRootCmd())

	return cmd
}

func newGitBranchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Short:   "List local branches",
		Aliases: []string{"br"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			branches, err := git.ListBranches(ctx, ".")
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(branches))
			for _, b := range branches {
				marker := ""
				if b.Current {
					marker = "*"
				}
				state := ""
				switch {
				case git.Protected(b.Name):
					state = "protected"
				case b.Merged:
					state = "merged"
				}
				rows = append(rows, []string{marker, b.Name, state})
			}
			output.FromContext(ctx).Print(ui.RenderTable([]string{"", "BRANCH", "STATE"}, rows))
			return nil
		},
	}

	cmd.AddCommand(newGitBranchesPruneCmd())
	return cmd
}

func newGitBranchesPruneCmd() *cobra.Command {
	var (
		merged  bool
		remote  string
		pattern string
		force   bool
		dryRun  bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete branches by merge state or pattern",
		Args:  cobra.NoArgs,
		Long: `Delete local branches, selected by merge state or a glob pattern.

The current branch and protected branches (main, master, develop) are
never deleted. With --remote, the matching branches are also deleted
from that remote.`,
		Example: `  dk git branches prune --merged              # Delete branches merged into HEAD
  dk git branches prune --pattern 'feat/*'    # Delete branches matching a glob
  dk git branches prune --merged --remote origin
  dk git branches prune --pattern 'tmp/*' --force --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !merged && pattern == "" {
				return fmt.Errorf("nothing selected: pass --merged and/or --pattern")
			}

			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			branches, err := git.ListBranches(ctx, ".")
			if err != nil {
				return err
			}

			var targets []string
			for _, b := range branches {
				if b.Current || git.Protected(b.Name) {
					continue
				}
				if merged && !b.Merged {
					continue
				}
				if pattern != "" && !git.MatchBranch(pattern, b.Name) {
					continue
				}
				targets = append(targets, b.Name)
			}

			if len(targets) == 0 {
				logger.Println("No branches to prune")
				return nil
			}

			for _, name := range targets {
				logger.Printf("  %s\n", name)
			}
			if dryRun {
				logger.Printf("Would delete %d branches (dry run)\n", len(targets))
				return nil
			}

			ok, err := confirm(fmt.Sprintf("Delete %d branches?", len(targets)), yes)
			if err != nil {
				return err
			}
			if !ok {
				logger.Println("Aborted")
				return nil
			}

			for _, name := range targets {
				if err := git.DeleteBranch(ctx, ".", name, force); err != nil {
					return fmt.Errorf("delete %s: %w", name, err)
				}
				if remote != "" {
					if err := git.DeleteRemoteBranch(ctx, ".", remote, name); err != nil {
						return fmt.Errorf("delete %s on %s: %w", name, remote, err)
					}
				}
			}
			logger.Printf("Deleted %d branches\n", len(targets))
			return nil
		},
	}

	cmd.Flags().BoolVar(&merged, "merged", false, "Select branches merged into HEAD")
	cmd.Flags().StringVar(&remote, "remote", "", "Also delete the branches from this remote")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Select branches matching a glob pattern")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force-delete unmerged branches (git branch -D)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be deleted")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newGitUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last commit, keeping its changes staged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			subject, err := git.LastCommitSubject(ctx, ".")
			if err != nil {
				return err
			}
			if err := git.Undo(ctx, "."); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Undid commit %q (changes kept staged)\n", subject)
			return nil
		},
	}
}

func newGitSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull with rebase, then push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			branch, err := git.CurrentBranch(ctx, ".")
			if err != nil {
				return err
			}
			if err := git.Sync(ctx, "."); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Synced %s\n", branch)
			return nil
		},
	}
}

func newGitSquashCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "squash <n>",
		Short: "Squash the last n commits into one",
		Args:  cobra.ExactArgs(1),
		Example: `  dk git squash 3                      # Squash the last 3 commits
  dk git squash 2 -m "Add overlay"     # With an explicit message`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 2 {
				return fmt.Errorf("need a commit count of at least 2, got %q", args[0])
			}

			ctx := cmd.Context()
			msg := message
			if msg == "" {
				// Default to the newest commit's subject.
				subject, err := git.LastCommitSubject(ctx, ".")
				if err != nil {
					return err
				}
				msg = subject
			}

			if err := git.Squash(ctx, ".", n, msg); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Squashed %d commits into %q\n", n, msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message for the squashed commit")
	return cmd
}

func newGitRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the repository root path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, err := git.Root(ctx, ".")
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(root)
			return nil
		},
	}
}
