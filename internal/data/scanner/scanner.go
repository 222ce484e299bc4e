package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-claude-backup/internal/util"
)

// DefaultMinFileSize is the size below which a session file is
// treated as empty or noise and skipped.
const DefaultMinFileSize = 1000

// SessionScanner enumerates session files under a projects directory.
// Sessions live one level deep: <baseDir>/<project>/<session>.jsonl.
// Deeper directories hold subagent transcripts and are not descended.
type SessionScanner struct {
	baseDir string
	pattern string
	minSize int64
}

// NewSessionScanner creates a scanner with the default minimum file size.
func NewSessionScanner(baseDir string) *SessionScanner {
	return &SessionScanner{
		baseDir: baseDir,
		pattern: "*.jsonl",
		minSize: DefaultMinFileSize,
	}
}

// NewSessionScannerWithMinSize creates a scanner with a custom size threshold.
func NewSessionScannerWithMinSize(baseDir string, minSize int64) *SessionScanner {
	s := NewSessionScanner(baseDir)
	s.minSize = minSize
	return s
}

// Scan returns the paths of all qualifying session files, in
// directory order. Unreadable project directories are skipped.
func (s *SessionScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory %s: %w", s.baseDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirCount++

		projectDir := filepath.Join(s.baseDir, entry.Name())
		fileEntries, err := os.ReadDir(projectDir)
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip project directory (error): %s - %v", projectDir, err))
			continue
		}

		for _, fe := range fileEntries {
			if fe.IsDir() {
				continue
			}
			totalCount++

			name := fe.Name()
			if !strings.HasSuffix(strings.ToLower(name), ".jsonl") {
				continue
			}

			info, err := fe.Info()
			if err != nil {
				util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", name, err))
				continue
			}
			if info.Size() < s.minSize {
				util.LogDebug(fmt.Sprintf("Skip file below size threshold: %s (%d bytes)", name, info.Size()))
				continue
			}

			files = append(files, filepath.Join(projectDir, name))
		}
	}

	duration := time.Since(start)
	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d session files",
		duration, dirCount, totalCount, len(files)))

	return files, nil
}
