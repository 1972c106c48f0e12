// Package archive wraps zip/unzip and tar for the dk archive commands.
// The format is chosen from the archive file name, the way the original
// aliases decided between their zip and tar variants.
package archive

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/funnyzak/dk/internal/execx"
)

// Format identifies a supported archive format.
type Format string

const (
	Zip    Format = "zip"
	TarGz  Format = "tar.gz"
	TarXz  Format = "tar.xz"
	TarBz2 Format = "tar.bz2"
	Tar    Format = "tar"
)

// tarFlag maps tar-based formats to their compression flag.
var tarFlag = map[Format]string{
	TarGz:  "z",
	TarXz:  "J",
	TarBz2: "j",
	Tar:    "",
}

// DetectFormat picks the format from an archive file name.
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return Zip, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return TarGz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return TarXz, nil
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return TarBz2, nil
	case strings.HasSuffix(lower, ".tar"):
		return Tar, nil
	}
	return "", fmt.Errorf("cannot detect archive format from %q (supported: .zip .tar.gz .tgz .tar.xz .tar.bz2 .tar)", name)
}

// Tool returns the binary a format needs for packing.
func (f Format) Tool() string {
	if f == Zip {
		return "zip"
	}
	return "tar"
}

// PackArgs builds the command line for creating archive from sources.
func PackArgs(f Format, archive string, sources []string) (string, []string) {
	if f == Zip {
		return "zip", append([]string{"-r", "-q", archive}, sources...)
	}
	return "tar", append([]string{"-c" + tarFlag[f] + "f", archive}, sources...)
}

// UnpackArgs builds the command line for extracting archive into dest.
func UnpackArgs(f Format, archive, dest string) (string, []string) {
	if f == Zip {
		return "unzip", []string{"-q", archive, "-d", dest}
	}
	return "tar", []string{"-x" + tarFlag[f] + "f", archive, "-C", dest}
}

// ListArgs builds the command line for listing archive contents.
func ListArgs(f Format, archive string) (string, []string) {
	if f == Zip {
		return "unzip", []string{"-l", archive}
	}
	return "tar", []string{"-t" + tarFlag[f] + "f", archive}
}

// Pack creates an archive from the given sources. All sources must exist
// before any external process runs.
func Pack(ctx context.Context, archive string, sources []string, force bool) error {
	f, err := DetectFormat(archive)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("nothing to pack")
	}
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("source not found: %s", src)
		}
	}
	if !force {
		if _, err := os.Stat(archive); err == nil {
			return fmt.Errorf("archive already exists: %s (use --force)", archive)
		}
	} else {
		// zip appends to existing archives; start clean instead.
		os.Remove(archive)
	}

	bin, args := PackArgs(f, archive, sources)
	if !execx.Available(bin) {
		return fmt.Errorf("%s not found in PATH", bin)
	}
	return execx.RunContext(ctx, "", bin, args...)
}

// Unpack extracts an archive into dest (created if missing).
func Unpack(ctx context.Context, archive, dest string) error {
	f, err := DetectFormat(archive)
	if err != nil {
		return err
	}
	if _, err := os.Stat(archive); err != nil {
		return fmt.Errorf("archive not found: %s", archive)
	}
	if dest == "" {
		dest = "."
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	bin, args := UnpackArgs(f, archive, dest)
	if !execx.Available(bin) {
		return fmt.Errorf("%s not found in PATH", bin)
	}
	return execx.RunContext(ctx, "", bin, args...)
}

// List returns the archive's content listing as the wrapped tool prints it.
func List(ctx context.Context, archive string) (string, error) {
	f, err := DetectFormat(archive)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(archive); err != nil {
		return "", fmt.Errorf("archive not found: %s", archive)
	}

	bin, args := ListArgs(f, archive)
	if !execx.Available(bin) {
		return "", fmt.Errorf("%s not found in PATH", bin)
	}
	out, err := execx.OutputContext(ctx, "", bin, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
