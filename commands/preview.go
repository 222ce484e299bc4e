package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/penwyp/go-claude-backup/internal/core/project"
	"github.com/penwyp/go-claude-backup/internal/data/parser"
	"github.com/penwyp/go-claude-backup/internal/presentation/markdown"
)

const previewFallbackWidth = 100

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render one session in the terminal",
	Long: `preview converts a single session transcript (.jsonl) to Markdown and
renders it in the terminal. An already-converted Markdown file is
rendered as-is. When stdout is not a terminal the raw Markdown is
printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	setupRuntime(newBackupConfig().Timezone)

	source := expandPath(args[0])
	content, err := previewContent(source)
	if err != nil {
		return err
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(content)
		return nil
	}

	width := previewFallbackWidth
	if w, _, err := term.GetSize(fd); err == nil && w > 20 {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", source, err)
	}

	fmt.Print(rendered)
	return nil
}

// previewContent loads the Markdown to display: transcripts are
// converted in memory, Markdown files pass through.
func previewContent(source string) (string, error) {
	if strings.EqualFold(filepath.Ext(source), ".md") {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	records, err := parser.NewParser().ParseFile(source)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no parsable records in %s", source)
	}

	projectName := project.Sanitize(project.Resolve(records))
	return markdown.NewTranscriptRenderer().Render(records, projectName), nil
}
