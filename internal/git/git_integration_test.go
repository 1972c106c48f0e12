//go:build integration

package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/funnyzak/dk/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

// setupTestRepo creates a git repo with an initial commit.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}

	cmds := [][]string{
		{"git", "init", "-b", "main"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "commit.gpgsign", "false"},
	}
	for _, args := range cmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("failed to run %v: %v\n%s", args, err, out)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	for _, args := range [][]string{
		{"git", "add", "."},
		{"git", "commit", "-m", "initial"},
	} {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("failed to run %v: %v\n%s", args, err, out)
		}
	}
	return dir
}

func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestCurrentBranchAndRoot(t *testing.T) {
	dir := setupTestRepo(t)
	ctx := logCtx()

	branch, err := CurrentBranch(ctx, dir)
	if err != nil {
		t.Fatalf("CurrentBranch = %v, want nil", err)
	}
	if branch != "main" {
		t.Errorf("CurrentBranch = %q, want %q", branch, "main")
	}

	root, err := Root(ctx, dir)
	if err != nil {
		t.Fatalf("Root = %v, want nil", err)
	}
	if root != dir {
		t.Errorf("Root = %q, want %q", root, dir)
	}
}

func TestListAndDeleteBranches(t *testing.T) {
	dir := setupTestRepo(t)
	ctx := logCtx()

	gitIn(t, dir, "branch", "feature-x")
	gitIn(t, dir, "branch", "feature-y")

	branches, err := ListBranches(ctx, dir)
	if err != nil {
		t.Fatalf("ListBranches = %v, want nil", err)
	}
	if len(branches) != 3 {
		t.Fatalf("ListBranches returned %d branches, want 3", len(branches))
	}
	for _, b := range branches {
		if !b.Merged {
			t.Errorf("branch %q not reported merged", b.Name)
		}
		if b.Name == "main" && !b.Current {
			t.Error("main not reported as current")
		}
	}

	if err := DeleteBranch(ctx, dir, "feature-x", false); err != nil {
		t.Fatalf("DeleteBranch = %v, want nil", err)
	}
	branches, err = ListBranches(ctx, dir)
	if err != nil {
		t.Fatalf("ListBranches = %v, want nil", err)
	}
	if len(branches) != 2 {
		t.Errorf("after delete: %d branches, want 2", len(branches))
	}
}

func TestUndoKeepsChanges(t *testing.T) {
	dir := setupTestRepo(t)
	ctx := logCtx()

	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("data\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	gitIn(t, dir, "add", ".")
	gitIn(t, dir, "commit", "-m", "second")

	if err := Undo(ctx, dir); err != nil {
		t.Fatalf("Undo = %v, want nil", err)
	}

	subject, err := LastCommitSubject(ctx, dir)
	if err != nil {
		t.Fatalf("LastCommitSubject = %v, want nil", err)
	}
	if subject != "initial" {
		t.Errorf("HEAD subject = %q, want %q", subject, "initial")
	}
	if !IsDirty(ctx, dir) {
		t.Error("IsDirty = false after undo, want true (changes kept)")
	}
}

func TestSquash(t *testing.T) {
	dir := setupTestRepo(t)
	ctx := logCtx()

	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		gitIn(t, dir, "add", ".")
		gitIn(t, dir, "commit", "-m", "add "+name)
	}

	if err := Squash(ctx, dir, 2, "combined"); err != nil {
		t.Fatalf("Squash = %v, want nil", err)
	}
	subject, err := LastCommitSubject(ctx, dir)
	if err != nil {
		t.Fatalf("LastCommitSubject = %v, want nil", err)
	}
	if subject != "combined" {
		t.Errorf("HEAD subject = %q, want %q", subject, "combined")
	}
}

func TestSquash_TooFewCommits(t *testing.T) {
	if err := Squash(logCtx(), t.TempDir(), 1, "msg"); err == nil {
		t.Error("Squash(n=1) = nil, want error")
	}
}
