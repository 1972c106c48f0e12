package bria

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Suffix is appended to output file names, matching the original tool.
const Suffix = "_rmbg"

// supportedExts mirrors the formats the API accepts.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
}

// IsSupported reports whether the file has a supported image extension.
func IsSupported(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// IsOutput reports whether name is one of our own outputs, so batch and
// watch modes never reprocess results.
func IsOutput(name string) bool {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.HasSuffix(base, Suffix)
}

// OutputName derives the result file name for a source file path or URL:
// the base name with a _rmbg suffix and a .png extension (the API always
// returns PNG). URL sources without a usable base name get a random one.
func OutputName(source string) string {
	name := ""
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if u, err := url.Parse(source); err == nil {
			if unescaped, err := url.PathUnescape(u.Path); err == nil {
				name = path.Base(unescaped)
			}
		}
		if name == "" || name == "/" || name == "." || !strings.Contains(name, ".") {
			name = "url_image_" + uuid.NewString()[:8] + ".jpg"
		}
	} else {
		name = filepath.Base(source)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + Suffix + ".png"
}
