package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"github.com/funnyzak/dk/internal/bria"
	"github.com/funnyzak/dk/internal/ui"
)

// briaTokenEnv overrides the configured API token.
const briaTokenEnv = "DK_BRIA_TOKEN"

// resolveBriaToken picks the API token: flag, then environment, then
// config file.
func resolveBriaToken(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if env := os.Getenv(briaTokenEnv); env != "" {
		return env, nil
	}
	if cfg != nil && cfg.Bria.APIToken != "" {
		return cfg.Bria.APIToken, nil
	}
	return "", fmt.Errorf("no API token: pass --token, set %s, or add bria.api_token to the config (dk config init)", briaTokenEnv)
}

// interactive reports whether both ends of the terminal are a TTY, so
// prompts and pickers are safe to show.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// pickImage lets the user choose an image from the current directory
// when a command was invoked without a source argument.
func pickImage(title string) (string, error) {
	if !interactive() {
		return "", fmt.Errorf("no image given and not running on a terminal")
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		return "", err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if bria.IsSupported(e.Name()) {
			images = append(images, e.Name())
		}
	}
	sort.Strings(images)
	if len(images) == 0 {
		return "", fmt.Errorf("no images found in the current directory")
	}
	return ui.Pick(title, images)
}

// startSpinner shows a spinner on interactive runs and returns its stop
// function. Piped or --quiet runs get a no-op, keeping stderr clean.
func startSpinner(message string) func() {
	if !interactive() || quiet {
		return func() {}
	}
	sp := ui.NewSpinner(message)
	sp.Start()
	return sp.Stop
}

// confirm asks before a destructive action; assumeYes skips the prompt.
// A non-interactive session without assumeYes declines.
func confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !interactive() {
		return false, fmt.Errorf("refusing without confirmation: re-run with --yes")
	}
	result, err := ui.Confirm(question)
	if err != nil {
		return false, err
	}
	if result.Cancelled {
		return false, fmt.Errorf("cancelled")
	}
	return result.Confirmed, nil
}
