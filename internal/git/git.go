// Package git wraps the git binary with the short operations dk exposes.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/funnyzak/dk/internal/execx"
)

// ErrGitNotFound indicates git is not installed or not in PATH.
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// Check verifies that git is available in PATH.
func Check() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

func run(ctx context.Context, dir string, args ...string) error {
	return execx.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

func output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return execx.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// IsInsideRepo returns true if dir is inside a git repository.
func IsInsideRepo(ctx context.Context, dir string) bool {
	return run(ctx, dir, "rev-parse", "--is-inside-work-tree") == nil
}

// Root returns the toplevel directory of the repository containing dir.
func Root(ctx context.Context, dir string) (string, error) {
	out, err := output(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// IsDirty returns true if the working directory has uncommitted changes.
func IsDirty(ctx context.Context, dir string) bool {
	out, err := output(ctx, dir, "status", "--porcelain")
	return err == nil && len(strings.TrimSpace(string(out))) > 0
}

// Branch describes a local branch.
type Branch struct {
	Name    string
	Current bool
	Merged  bool
}

// protected branches are never offered for deletion.
var protected = map[string]bool{
	"main":    true,
	"master":  true,
	"develop": true,
}

// Protected reports whether name is a protected branch.
func Protected(name string) bool {
	return protected[name]
}

// ListBranches returns local branches with merge status relative to HEAD.
func ListBranches(ctx context.Context, dir string) ([]Branch, error) {
	out, err := output(ctx, dir, "branch", "--format", "%(refname:short)")
	if err != nil {
		return nil, err
	}

	mergedOut, err := output(ctx, dir, "branch", "--merged", "--format", "%(refname:short)")
	if err != nil {
		return nil, err
	}
	merged := make(map[string]bool)
	for _, name := range ParseBranchList(string(mergedOut)) {
		merged[name] = true
	}

	current, err := CurrentBranch(ctx, dir)
	if err != nil {
		return nil, err
	}

	var branches []Branch
	for _, name := range ParseBranchList(string(out)) {
		branches = append(branches, Branch{
			Name:    name,
			Current: name == current,
			Merged:  merged[name],
		})
	}
	return branches, nil
}

// ParseBranchList splits `git branch --format=%(refname:short)` output,
// dropping empty lines and detached HEAD placeholders.
func ParseBranchList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "(") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// MatchBranch reports whether a branch name matches a glob-ish pattern.
// "*" matches any sequence; an empty pattern matches everything.
func MatchBranch(pattern, name string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// DeleteBranch removes a local branch. With force, unmerged branches are
// deleted too (-D).
func DeleteBranch(ctx context.Context, dir, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return run(ctx, dir, "branch", flag, name)
}

// DeleteRemoteBranch removes a branch on the given remote.
func DeleteRemoteBranch(ctx context.Context, dir, remote, name string) error {
	return run(ctx, dir, "push", remote, "--delete", name)
}

// Undo removes the last commit but keeps its changes staged.
func Undo(ctx context.Context, dir string) error {
	return run(ctx, dir, "reset", "--soft", "HEAD~1")
}

// Sync rebases onto the upstream branch and pushes.
func Sync(ctx context.Context, dir string) error {
	if err := run(ctx, dir, "pull", "--rebase"); err != nil {
		return fmt.Errorf("pull --rebase: %w", err)
	}
	if err := run(ctx, dir, "push"); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// Squash collapses the last n commits into one with the given message.
func Squash(ctx context.Context, dir string, n int, message string) error {
	if n < 2 {
		return fmt.Errorf("need at least 2 commits to squash, got %d", n)
	}
	if err := run(ctx, dir, "reset", "--soft", fmt.Sprintf("HEAD~%d", n)); err != nil {
		return err
	}
	return run(ctx, dir, "commit", "-m", message)
}

// LastCommitSubject returns the subject line of HEAD.
func LastCommitSubject(ctx context.Context, dir string) (string, error) {
	out, err := output(ctx, dir, "log", "-1", "--pretty=%s")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
