package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/penwyp/go-claude-backup/internal/util"
)

// SummaryFilename is the global summary written at the output root.
const SummaryFilename = "_SUMMARY.md"

// ProjectCount pairs a project with its converted-session count.
type ProjectCount struct {
	Name     string
	Sessions int
}

// CollectProjectCounts scans the output tree and counts converted
// sessions per project directory. Directories starting with an
// underscore are reserved for generated files. The index file does
// not count as a session.
func CollectProjectCounts(outputDir string) ([]ProjectCount, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, err
	}

	var counts []ProjectCount
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}

		mdFiles, err := filepath.Glob(filepath.Join(outputDir, entry.Name(), "*.md"))
		if err != nil {
			continue
		}

		sessions := 0
		for _, f := range mdFiles {
			if filepath.Base(f) != IndexFilename {
				sessions++
			}
		}
		if sessions > 0 {
			counts = append(counts, ProjectCount{Name: entry.Name(), Sessions: sessions})
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Sessions != counts[j].Sessions {
			return counts[i].Sessions > counts[j].Sessions
		}
		return counts[i].Name < counts[j].Name
	})

	return counts, nil
}

// RenderSummary emits the global summary table of project name to
// session count, sorted by count descending.
func RenderSummary(counts []ProjectCount) string {
	totalSessions := 0
	for _, c := range counts {
		totalSessions += c.Sessions
	}

	var md strings.Builder
	md.WriteString("# Claude Code Backup\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n", util.GetTimeProvider().FormatNow("2006-01-02 15:04")))
	md.WriteString(fmt.Sprintf("**Projects:** %d | **Sessions:** %d\n\n", len(counts), totalSessions))
	md.WriteString("| Project | Sessions |\n|---|---|\n")
	for _, c := range counts {
		md.WriteString(fmt.Sprintf("| [[%s/_INDEX\\|%s]] | %d |\n", c.Name, c.Name, c.Sessions))
	}

	return md.String()
}
