package markdown

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// IndexFilename is the per-project index written alongside sessions.
const IndexFilename = "_INDEX.md"

var wikiLink = regexp.MustCompile(`\[\[(.+?)\]\]`)

// RenderIndex emits the per-project index: all session filenames as
// link references, newest first. Filenames begin with a date, so a
// descending lexical sort is a descending date sort.
func RenderIndex(projectName string, filenames []string) string {
	sorted := make([]string, len(filenames))
	copy(sorted, filenames)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	var md strings.Builder
	md.WriteString(fmt.Sprintf("# %s\n\n", projectName))
	md.WriteString(fmt.Sprintf("**Sessions:** %d\n\n", len(sorted)))
	md.WriteString("## Session List\n\n")
	for _, f := range sorted {
		md.WriteString(fmt.Sprintf("- [[%s]]\n", strings.TrimSuffix(f, ".md")))
	}

	return md.String()
}

// LoadIndexedFiles recovers the session filenames recorded in an
// existing index so incremental runs can union rather than clobber.
// A missing or unreadable index yields nil.
func LoadIndexedFiles(indexPath string) []string {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil
	}

	var files []string
	for _, match := range wikiLink.FindAllStringSubmatch(string(data), -1) {
		name := match[1]
		// Summary rows carry a path and display label; index rows do not.
		if strings.Contains(name, "/") || strings.Contains(name, "|") {
			continue
		}
		files = append(files, name+".md")
	}
	return files
}

// MergeFilenames unions two filename lists, dropping duplicates.
func MergeFilenames(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	var merged []string
	for _, f := range append(append([]string{}, existing...), added...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		merged = append(merged, f)
	}
	return merged
}
