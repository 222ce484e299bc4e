package display

import (
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/penwyp/go-claude-backup/internal/util"
)

const maxProjectColumnWidth = 40

// Console prints operator-facing progress text. A silent console
// swallows everything; errors always reach stderr.
type Console struct {
	out    io.Writer
	errOut io.Writer
	silent bool
}

// NewConsole creates a console writing to stdout/stderr.
func NewConsole(silent bool) *Console {
	return &Console{
		out:    os.Stdout,
		errOut: os.Stderr,
		silent: silent,
	}
}

// IsTerminal reports whether stdout is an interactive terminal.
func (c *Console) IsTerminal() bool {
	f, ok := c.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printf writes progress text unless silenced.
func (c *Console) Printf(format string, args ...interface{}) {
	if c.silent {
		return
	}
	fmt.Fprintf(c.out, format, args...)
}

// Errorf writes an error line to stderr unless silenced.
func (c *Console) Errorf(format string, args ...interface{}) {
	if c.silent {
		return
	}
	fmt.Fprintf(c.errOut, format, args...)
}

// PrintStart announces a run.
func (c *Console) PrintStart(mode, source, output string) {
	c.Printf("Starting %s backup...\n", mode)
	c.Printf("  Source: %s\n", source)
	c.Printf("  Output: %s\n", output)
}

// PrintProjectTable renders a per-project session-count table aligned
// by display width, widest counts first.
func (c *Console) PrintProjectTable(counts map[string]int) {
	if c.silent || len(counts) == 0 {
		return
	}

	type row struct {
		name     string
		sessions int
	}
	rows := make([]row, 0, len(counts))
	nameWidth := util.DisplayWidth("Project")
	for name, sessions := range counts {
		display := util.TruncateWidth(name, maxProjectColumnWidth)
		if w := util.DisplayWidth(display); w > nameWidth {
			nameWidth = w
		}
		rows = append(rows, row{name: display, sessions: sessions})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].sessions != rows[j].sessions {
			return rows[i].sessions > rows[j].sessions
		}
		return rows[i].name < rows[j].name
	})

	c.Printf("\n  %s  Sessions\n", util.PadRight("Project", nameWidth))
	for _, r := range rows {
		c.Printf("  %s  %s\n", util.PadRight(r.name, nameWidth), util.FormatNumber(r.sessions))
	}
}

// PrintResult reports run totals.
func (c *Console) PrintResult(processed, skipped, projects int, output string) {
	c.Printf("\nDone!\n")
	c.Printf("  Processed: %s sessions\n", util.FormatNumber(processed))
	if skipped > 0 {
		c.Printf("  Skipped: %s (already exist)\n", util.FormatNumber(skipped))
	}
	c.Printf("  Projects: %s\n", util.FormatNumber(projects))
	c.Printf("  Output: %s\n", output)
}
