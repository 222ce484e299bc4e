package markdown

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-claude-backup/internal/core/model"
)

const (
	maxToolPathLength    = 50
	maxToolCommandLength = 80
)

// ExtractText reduces message content to display text. Text items
// pass through; tool invocations become one-line annotations keyed by
// tool name. The transform is lossy and display-only.
func ExtractText(content model.FlexibleContent) string {
	var texts []string

	for _, item := range content {
		switch item.Type {
		case "text":
			if item.Text != "" {
				texts = append(texts, item.Text)
			}
		case "tool_use":
			texts = append(texts, describeToolUse(item))
		}
	}

	return strings.Join(texts, "\n")
}

func describeToolUse(item model.ContentItem) string {
	tool := item.Name
	if tool == "" {
		tool = "Tool"
	}

	switch tool {
	case "Read", "Write", "Edit", "Glob", "Grep":
		path := item.Input.FilePath
		if path == "" {
			path = item.Input.Path
		}
		if path == "" {
			path = item.Input.Pattern
		}
		return fmt.Sprintf("`📁 %s: %s`", tool, tailRunes(path, maxToolPathLength))
	case "Bash":
		return fmt.Sprintf("`🔧 %s`", headRunes(item.Input.Command, maxToolCommandLength))
	case "TodoWrite":
		return "`📝 Todo`"
	case "WebSearch", "WebFetch":
		return fmt.Sprintf("`🌐 %s`", tool)
	case "Task":
		return "`🤖 Task Agent`"
	default:
		return fmt.Sprintf("`⚙️ %s`", tool)
	}
}

// tailRunes keeps the last n runes, where the interesting part of a
// path lives.
func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
