// Package doctor checks which wrapped tools are installed.
package doctor

import (
	"os/exec"
)

// Tool is one external dependency dk wraps.
type Tool struct {
	Name     string   // display name
	Binaries []string // any of these satisfies the check
	Purpose  string
	Hint     string // install hint shown when missing
}

// Tools lists every binary dk shells out to.
func Tools() []Tool {
	return []Tool{
		{
			Name:     "git",
			Binaries: []string{"git"},
			Purpose:  "dk git commands",
			Hint:     "https://git-scm.com",
		},
		{
			Name:     "ImageMagick",
			Binaries: []string{"magick", "convert"},
			Purpose:  "dk image commands",
			Hint:     "https://imagemagick.org",
		},
		{
			Name:     "zip",
			Binaries: []string{"zip"},
			Purpose:  "dk archive pack (.zip)",
			Hint:     "install zip from your package manager",
		},
		{
			Name:     "unzip",
			Binaries: []string{"unzip"},
			Purpose:  "dk archive unpack/peek (.zip)",
			Hint:     "install unzip from your package manager",
		},
		{
			Name:     "tar",
			Binaries: []string{"tar"},
			Purpose:  "dk archive commands (.tar.*)",
			Hint:     "install tar from your package manager",
		},
		{
			Name:     "openssl",
			Binaries: []string{"openssl"},
			Purpose:  "dk ssl commands",
			Hint:     "https://www.openssl.org",
		},
		{
			Name:     "yt-dlp",
			Binaries: []string{"yt-dlp"},
			Purpose:  "dk media grab/audio",
			Hint:     "https://github.com/yt-dlp/yt-dlp",
		},
	}
}

// Status is the check result for one tool.
type Status struct {
	Tool  Tool
	Found bool
	Path  string // resolved binary path when found
}

// Run checks every tool with LookPath.
func Run() []Status {
	return check(Tools(), exec.LookPath)
}

// check is separated for tests.
func check(tools []Tool, lookPath func(string) (string, error)) []Status {
	statuses := make([]Status, 0, len(tools))
	for _, tool := range tools {
		status := Status{Tool: tool}
		for _, bin := range tool.Binaries {
			if path, err := lookPath(bin); err == nil {
				status.Found = true
				status.Path = path
				break
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Missing counts tools that were not found.
func Missing(statuses []Status) int {
	n := 0
	for _, s := range statuses {
		if !s.Found {
			n++
		}
	}
	return n
}
