// Package config loads dk configuration from ~/.config/dk/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// BriaConfig holds settings for the Bria background-removal API.
type BriaConfig struct {
	APIToken  string `toml:"api_token"`
	OutputDir string `toml:"output_dir"` // default output directory for URL mode
	Workers   int    `toml:"workers"`    // batch worker count
	Overwrite bool   `toml:"overwrite"`  // overwrite existing outputs
}

// MediaConfig holds settings for yt-dlp downloads.
type MediaConfig struct {
	OutputDir   string `toml:"output_dir"`   // where downloads land ("" = cwd)
	Format      string `toml:"format"`       // yt-dlp -f selector
	AudioFormat string `toml:"audio_format"` // mp3, m4a, opus, ...
}

// ImageConfig holds defaults for ImageMagick commands.
type ImageConfig struct {
	Quality int `toml:"quality"` // JPEG/WebP quality for compress
}

// Config holds the dk configuration.
type Config struct {
	Bria  BriaConfig  `toml:"bria"`
	Media MediaConfig `toml:"media"`
	Image ImageConfig `toml:"image"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Bria:  BriaConfig{Workers: 4},
		Media: MediaConfig{AudioFormat: "mp3"},
		Image: ImageConfig{Quality: 85},
	}
}

// ValidatePath checks that the path is absolute or starts with ~.
// Relative paths like "." or ".." are rejected so config does not
// depend on where dk happens to be invoked.
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // empty means not configured
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dk", "config.toml"), nil
}

// Load reads config from ~/.config/dk/config.toml.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates config from the given path.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, p := range []struct {
		value *string
		name  string
	}{
		{&cfg.Bria.OutputDir, "bria.output_dir"},
		{&cfg.Media.OutputDir, "media.output_dir"},
	} {
		if err := ValidatePath(*p.value, p.name); err != nil {
			return Default(), err
		}
		expanded, err := expandPath(*p.value)
		if err != nil {
			return Default(), fmt.Errorf("expand %s: %w", p.name, err)
		}
		*p.value = expanded
	}

	if cfg.Bria.Workers < 0 {
		return Default(), fmt.Errorf("invalid bria.workers %d: must be >= 0", cfg.Bria.Workers)
	}
	if cfg.Bria.Workers == 0 {
		cfg.Bria.Workers = Default().Bria.Workers
	}
	if cfg.Image.Quality < 0 || cfg.Image.Quality > 100 {
		return Default(), fmt.Errorf("invalid image.quality %d: must be 1-100", cfg.Image.Quality)
	}
	if cfg.Image.Quality == 0 {
		cfg.Image.Quality = Default().Image.Quality
	}
	if cfg.Media.AudioFormat == "" {
		cfg.Media.AudioFormat = Default().Media.AudioFormat
	}

	return cfg, nil
}

const defaultConfig = `# dk configuration

# Bria background-removal API (https://platform.bria.ai/console)
# Token resolution order: --token flag > DK_BRIA_TOKEN env > this file
#
# [bria]
# api_token = ""
# output_dir = "~/Pictures/rmbg"   # output directory for URL sources
# workers = 4                      # batch worker count
# overwrite = false                # overwrite existing _rmbg.png outputs

# Media downloads (yt-dlp)
#
# [media]
# output_dir = "~/Downloads"  # where downloads land (default: current dir)
# format = ""                 # yt-dlp -f selector, e.g. "bestvideo+bestaudio"
# audio_format = "mp3"        # for 'dk media audio'

# Image defaults (ImageMagick)
#
# [image]
# quality = 85   # JPEG/WebP quality for 'dk image compress'
`

// DefaultFileContent returns the commented default config file text.
func DefaultFileContent() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/dk/config.toml.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
