// Package files implements native file helpers that replace the
// original find/sed rename aliases.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Rename is one planned rename within a directory.
type Rename struct {
	From string
	To   string
}

// PlanRename computes renames for every file in dir whose name matches
// pattern. With useRegexp, pattern is a regular expression and
// replacement may use $1 group references; otherwise both are plain
// substrings. Names that would not change are skipped.
func PlanRename(dir, pattern, replacement string, useRegexp bool) ([]Rename, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	replace := func(name string) string {
		return strings.ReplaceAll(name, pattern, replacement)
	}
	if useRegexp {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		replace = func(name string) string {
			return re.ReplaceAllString(name, replacement)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var plans []Rename
	targets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		newName := replace(name)
		if newName == name {
			continue
		}
		if newName == "" || strings.ContainsRune(newName, filepath.Separator) {
			return nil, fmt.Errorf("replacement produces invalid name %q for %q", newName, name)
		}
		if prev, ok := targets[newName]; ok {
			return nil, fmt.Errorf("both %q and %q would become %q", prev, name, newName)
		}
		targets[newName] = name
		plans = append(plans, Rename{
			From: filepath.Join(dir, name),
			To:   filepath.Join(dir, newName),
		})
	}
	return plans, nil
}

// ApplyRename executes the plans, refusing to overwrite existing files.
func ApplyRename(plans []Rename) error {
	for _, p := range plans {
		if _, err := os.Stat(p.To); err == nil {
			return fmt.Errorf("target already exists: %s", p.To)
		}
	}
	for _, p := range plans {
		if err := os.Rename(p.From, p.To); err != nil {
			return fmt.Errorf("rename %s: %w", p.From, err)
		}
	}
	return nil
}
