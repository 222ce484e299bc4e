package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-claude-backup/internal/core/model"
	"github.com/penwyp/go-claude-backup/internal/core/project"
	"github.com/penwyp/go-claude-backup/internal/core/title"
	"github.com/penwyp/go-claude-backup/internal/data/parser"
	"github.com/penwyp/go-claude-backup/internal/data/scanner"
	"github.com/penwyp/go-claude-backup/internal/presentation/display"
	"github.com/penwyp/go-claude-backup/internal/presentation/markdown"
	"github.com/penwyp/go-claude-backup/internal/util"
)

// Config holds one run's settings.
type Config struct {
	SourceDir   string
	OutputDir   string
	Incremental bool
	Silent      bool
	MinFileSize int64
	TitleLength int
	Timezone    string
}

// Result is the accumulator returned by Run. No counters live outside
// of it.
type Result struct {
	Processed  int
	Skipped    int
	Failed     int
	Projects   int
	Sessions   int
	PerProject map[string]int
}

type projectStats struct {
	sessions int
	messages int
	files    []string
}

// Backup converts session transcripts into per-project Markdown
// documents with index and summary files.
type Backup struct {
	config   *Config
	scanner  *scanner.SessionScanner
	parser   *parser.Parser
	titles   *title.Extractor
	renderer *markdown.TranscriptRenderer
	console  *display.Console
}

// New wires a backup pipeline from the configuration.
func New(config *Config) *Backup {
	if config.MinFileSize == 0 {
		config.MinFileSize = scanner.DefaultMinFileSize
	}

	return &Backup{
		config:   config,
		scanner:  scanner.NewSessionScannerWithMinSize(config.SourceDir, config.MinFileSize),
		parser:   parser.NewParser(),
		titles:   title.NewExtractor(config.TitleLength),
		renderer: markdown.NewTranscriptRenderer(),
		console:  display.NewConsole(config.Silent),
	}
}

// Run executes one backup pass: scan, convert, index, summarize. The
// pipeline is strictly linear; per-file failures are reported and
// skipped, write failures abort the run.
func (b *Backup) Run() (Result, error) {
	startTime := time.Now()
	result := Result{PerProject: make(map[string]int)}

	util.LogInfo("Starting backup of session transcripts...")

	if _, err := os.Stat(b.config.SourceDir); err != nil {
		return result, fmt.Errorf("projects folder not found: %s", b.config.SourceDir)
	}

	// Phase 1: Prepare output tree. A full run replaces it wholesale.
	prepStart := time.Now()
	if !b.config.Incremental {
		if err := os.RemoveAll(b.config.OutputDir); err != nil {
			return result, fmt.Errorf("failed to clear output directory: %w", err)
		}
	}
	if err := os.MkdirAll(b.config.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 1 - Output preparation duration: %v", time.Since(prepStart)))

	// Phase 2: Scan session files.
	scanStart := time.Now()
	files, err := b.scanner.Scan()
	if err != nil {
		return result, err
	}
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", time.Since(scanStart), len(files)))

	// Phase 3: Convert sessions.
	convertStart := time.Now()
	stats := make(map[string]*projectStats)
	for _, file := range files {
		if err := b.convertSession(file, stats, &result); err != nil {
			return result, err
		}
	}
	util.LogDebug(fmt.Sprintf("Phase 3 - Conversion duration: %v, processed %d, skipped %d, failed %d",
		time.Since(convertStart), result.Processed, result.Skipped, result.Failed))

	// Phase 4: Per-project indices.
	indexStart := time.Now()
	if err := b.writeIndices(stats); err != nil {
		return result, err
	}
	util.LogDebug(fmt.Sprintf("Phase 4 - Index writing duration: %v", time.Since(indexStart)))

	// Phase 5: Global summary.
	summaryStart := time.Now()
	counts, err := markdown.CollectProjectCounts(b.config.OutputDir)
	if err != nil {
		return result, fmt.Errorf("failed to collect project counts: %w", err)
	}
	summaryPath := filepath.Join(b.config.OutputDir, markdown.SummaryFilename)
	if err := os.WriteFile(summaryPath, []byte(markdown.RenderSummary(counts)), 0644); err != nil {
		return result, fmt.Errorf("failed to write summary: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 5 - Summary duration: %v", time.Since(summaryStart)))

	result.Projects = len(counts)
	for _, c := range counts {
		result.Sessions += c.Sessions
		result.PerProject[c.Name] = c.Sessions
	}

	util.LogDebug(fmt.Sprintf("Total duration: %v", time.Since(startTime)))
	return result, nil
}

// convertSession turns one transcript file into a Markdown document.
// Returned errors are write failures; everything else is absorbed
// into the result counters.
func (b *Backup) convertSession(file string, stats map[string]*projectStats, result *Result) error {
	records, err := b.parser.ParseFile(file)
	if err != nil {
		result.Failed++
		b.console.Errorf("Error: %s: %v\n", filepath.Base(file), err)
		util.LogWarn(fmt.Sprintf("Failed to parse file %s: %v", file, err))
		return nil
	}
	if len(records) == 0 {
		util.LogDebug(fmt.Sprintf("Skip file without parsable records: %s", file))
		return nil
	}

	projectName := project.Sanitize(project.Resolve(records))
	firstTs := markdown.FirstTimestamp(records)
	if firstTs.IsZero() {
		util.LogDebug(fmt.Sprintf("Skip session without timestamp: %s", file))
		return nil
	}

	projectOut := filepath.Join(b.config.OutputDir, projectName)
	if err := os.MkdirAll(projectOut, 0755); err != nil {
		return fmt.Errorf("failed to create project directory %s: %w", projectOut, err)
	}

	filename := b.sessionFilename(records, file, firstTs)
	outFile := filepath.Join(projectOut, filename)

	if b.config.Incremental && b.alreadyConverted(projectOut, filename, file, firstTs) {
		result.Skipped++
		return nil
	}

	content := b.renderer.Render(records, projectName)
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	s := stats[projectName]
	if s == nil {
		s = &projectStats{}
		stats[projectName] = s
	}
	s.sessions++
	s.messages += len(records)
	s.files = append(s.files, filename)
	result.Processed++

	return nil
}

// sessionFilename computes <date>_<title-or-id>.md for a session.
func (b *Backup) sessionFilename(records []model.SessionRecord, file string, firstTs time.Time) string {
	dateStr := util.GetTimeProvider().Format(firstTs, "2006-01-02")
	if t := b.titles.Extract(records); t != "" {
		return fmt.Sprintf("%s_%s.md", dateStr, t)
	}
	return fmt.Sprintf("%s_%s.md", dateStr, stemFragment(file))
}

// alreadyConverted applies the incremental skip rule: the computed
// filename exists, or the legacy identifier-based filename from
// before title extraction exists.
func (b *Backup) alreadyConverted(projectOut, filename, file string, firstTs time.Time) bool {
	if _, err := os.Stat(filepath.Join(projectOut, filename)); err == nil {
		return true
	}

	dateStr := util.GetTimeProvider().Format(firstTs, "2006-01-02")
	legacy := fmt.Sprintf("%s_%s.md", dateStr, stemFragment(file))
	if legacy == filename {
		return false
	}
	_, err := os.Stat(filepath.Join(projectOut, legacy))
	return err == nil
}

func (b *Backup) writeIndices(stats map[string]*projectStats) error {
	for name, s := range stats {
		if s.sessions == 0 {
			continue
		}

		indexPath := filepath.Join(b.config.OutputDir, name, markdown.IndexFilename)

		var existing []string
		if b.config.Incremental {
			existing = markdown.LoadIndexedFiles(indexPath)
		}
		files := markdown.MergeFilenames(existing, s.files)

		if err := os.WriteFile(indexPath, []byte(markdown.RenderIndex(name, files)), 0644); err != nil {
			return fmt.Errorf("failed to write index for %s: %w", name, err)
		}
	}
	return nil
}

// stemFragment is the identifier fallback for untitled sessions: the
// first 8 characters of the session filename stem.
func stemFragment(file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if len(stem) > 8 {
		stem = stem[:8]
	}
	return stem
}
