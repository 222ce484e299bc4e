package title

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-claude-backup/internal/core/model"
)

func userRecord(text string) model.SessionRecord {
	return model.SessionRecord{
		Type: "user",
		Message: model.Message{
			Role:    "user",
			Content: model.FlexibleContent{{Type: "text", Text: text}},
		},
	}
}

func TestExtractWordBoundaryTruncation(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{userRecord("Fix the login bug in auth.py")}

	title := e.Extract(records)

	assert.Equal(t, "Fix the login bug in auth", title)
	assert.True(t, strings.HasPrefix("Fix the login bug in auth.py", title))
}

func TestExtractLongTextCutsAtWordBoundary(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{
		userRecord("Please refactor the session grouping logic so consecutive blocks merge"),
	}

	title := e.Extract(records)

	assert.LessOrEqual(t, len([]rune(title)), 30)
	assert.Equal(t, "Please refactor the session", title)
}

func TestExtractSkipsCommandMessages(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{
		userRecord("/compact"),
		userRecord("<local-command-stdout>done</local-command-stdout>"),
		userRecord("Add retry handling"),
	}

	assert.Equal(t, "Add retry handling", e.Extract(records))
}

func TestExtractSkipsAssistantRecords(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{
		{
			Type: "assistant",
			Message: model.Message{
				Role:    "assistant",
				Content: model.FlexibleContent{{Type: "text", Text: "I can help with that"}},
			},
		},
		userRecord("Rename the config package"),
	}

	assert.Equal(t, "Rename the config package", e.Extract(records))
}

func TestExtractNormalizesWhitespace(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{userRecord("fix\n\tthe   spacing")}

	assert.Equal(t, "fix the spacing", e.Extract(records))
}

func TestExtractReducesURL(t *testing.T) {
	e := NewExtractor(30)

	tests := []struct {
		input    string
		expected string
	}{
		{"https://github.com/penwyp/go-claude-monitor", "go-claude-monitor"},
		{"https://github.com/penwyp/go-claude-monitor.git", "go-claude-monitor"},
		{"https://www.example.com", "example.com"},
	}

	for _, tt := range tests {
		records := []model.SessionRecord{userRecord(tt.input)}
		assert.Equal(t, tt.expected, e.Extract(records), "input: %s", tt.input)
	}
}

func TestExtractReducesFilePath(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{userRecord("/home/dev/project/internal/backup.go")}

	assert.Equal(t, "backup", e.Extract(records))
}

func TestExtractDiscardsShortCandidates(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{
		userRecord("ok"),
		userRecord("Investigate the flaky test"),
	}

	assert.Equal(t, "Investigate the flaky test", e.Extract(records))
}

func TestExtractNoCandidate(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{
		userRecord("/clear"),
		userRecord("no"),
	}

	assert.Equal(t, "", e.Extract(records))
}

func TestExtractStripsIllegalFilenameChars(t *testing.T) {
	e := NewExtractor(30)
	records := []model.SessionRecord{userRecord(`rename a|b to a_b`)}

	title := e.Extract(records)

	assert.NotContains(t, title, "|")
	assert.Equal(t, "rename a b to a_b", title)
}

func TestNewExtractorDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxLength, NewExtractor(0).MaxLength)
	assert.Equal(t, 25, NewExtractor(25).MaxLength)
}
