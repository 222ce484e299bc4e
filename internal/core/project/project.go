package project

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/penwyp/go-claude-backup/internal/core/model"
)

// DefaultName is used when no record carries a usable working directory.
const DefaultName = "00-misc"

const maxNameLength = 60

// numberedFolder matches ticket/category folders like "017 - billing-service".
var numberedFolder = regexp.MustCompile(`^\d{2,3}\s*-`)

var illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Resolve derives a project name from the working directories recorded
// in a session. The first record with a cwd wins. Numbered folders are
// preferred, searched from the most specific path segment backward;
// otherwise the most specific segment not on the deny list is used.
func Resolve(records []model.SessionRecord) string {
	skipNames := denyList()

	for _, record := range records {
		if record.Cwd == "" {
			continue
		}

		parts := splitPath(record.Cwd)

		for i := len(parts) - 1; i >= 0; i-- {
			if numberedFolder.MatchString(parts[i]) {
				return parts[i]
			}
		}

		for i := len(parts) - 1; i >= 0; i-- {
			if parts[i] != "" && !skipNames[parts[i]] {
				return parts[i]
			}
		}
	}

	return DefaultName
}

// Sanitize strips characters that are illegal in filenames and bounds
// the name length.
func Sanitize(name string) string {
	cleaned := strings.TrimSpace(illegalChars.ReplaceAllString(name, ""))
	runes := []rune(cleaned)
	if len(runes) > maxNameLength {
		cleaned = string(runes[:maxNameLength])
	}
	return cleaned
}

func denyList() map[string]bool {
	skip := map[string]bool{
		"Users":     true,
		"home":      true,
		"Documents": true,
		"Desktop":   true,
		"":          true,
	}
	if home, err := os.UserHomeDir(); err == nil {
		skip[filepath.Base(home)] = true
	}
	return skip
}

func splitPath(path string) []string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	return strings.Split(strings.Trim(normalized, "/"), "/")
}
