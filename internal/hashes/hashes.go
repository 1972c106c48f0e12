// Package hashes provides fast file hashing and duplicate detection
// using xxh3-128.
package hashes

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"
)

// File returns the xxh3-128 hex digest of the file contents.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Sum(data), nil
}

// Sum returns the xxh3-128 hex digest of data.
func Sum(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// DupeGroup is a set of files with identical contents.
type DupeGroup struct {
	Hash  string
	Size  int64
	Paths []string
}

// Dupes finds duplicate files under root. Files are grouped by size
// first so only candidates get hashed.
func Dupes(root string) ([]DupeGroup, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory not found: %s", root)
	}

	bySize := make(map[int64][]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil // raced with a delete; skip
		}
		if fi.Size() == 0 {
			return nil
		}
		bySize[fi.Size()] = append(bySize[fi.Size()], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var groups []DupeGroup
	for size, paths := range bySize {
		if len(paths) < 2 {
			continue
		}
		byHash := make(map[string][]string)
		for _, path := range paths {
			sum, err := File(path)
			if err != nil {
				continue
			}
			byHash[sum] = append(byHash[sum], path)
		}
		for sum, dupes := range byHash {
			if len(dupes) < 2 {
				continue
			}
			sort.Strings(dupes)
			groups = append(groups, DupeGroup{Hash: sum, Size: size, Paths: dupes})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Size != groups[j].Size {
			return groups[i].Size > groups[j].Size
		}
		return groups[i].Hash < groups[j].Hash
	})
	return groups, nil
}
