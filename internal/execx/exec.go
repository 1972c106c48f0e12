// Package execx runs external commands with context support, verbose
// command logging, and stderr folded into returned errors.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/funnyzak/dk/internal/log"
)

// RunContext executes a command in dir (or the working directory if empty).
// On failure the command's stderr becomes the error message.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	log.FromContext(ctx).Command(name, args...)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return wrapErr(ctx, err, &stderr)
}

// OutputContext executes a command and returns its stdout.
// On failure the command's stderr becomes the error message.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	log.FromContext(ctx).Command(name, args...)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err := wrapErr(ctx, err, &stderr); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// OutputInputContext executes a command with the given stdin and returns
// its stdout. Used for piping one wrapped tool into another.
func OutputInputContext(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	log.FromContext(ctx).Command(name, args...)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err := wrapErr(ctx, err, &stderr); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// RunAttached executes a command with stdout/stderr attached to the
// terminal. Used for tools that render their own progress (yt-dlp).
func RunAttached(ctx context.Context, dir, name string, args ...string) error {
	log.FromContext(ctx).Command(name, args...)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Available reports whether the named binary is in PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// wrapErr prefers context errors, then the trimmed stderr text, then err.
func wrapErr(ctx context.Context, err error, stderr *bytes.Buffer) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}
