package fixtures

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Record mirrors one line of a session transcript in Claude Code
// format. Content is `any` so tests can emit both the string and the
// structured-list shape.
type Record struct {
	Cwd       string  `json:"cwd,omitempty"`
	IsMeta    bool    `json:"isMeta,omitempty"`
	Message   Message `json:"message,omitempty"`
	SessionId string  `json:"sessionId,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Type      string  `json:"type,omitempty"`
	Uuid      string  `json:"uuid,omitempty"`
}

type Message struct {
	Role    string `json:"role,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ToolUse is a structured tool-invocation content item.
type ToolUse struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input,omitempty"`
}

// TextItem is a structured text content item.
type TextItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SessionBuilder assembles a session transcript file for tests.
type SessionBuilder struct {
	sessionId string
	cwd       string
	start     time.Time
	records   []Record
	rawLines  []rawLine
}

// NewSession starts a builder for one session file.
func NewSession(sessionId, cwd string, start time.Time) *SessionBuilder {
	return &SessionBuilder{sessionId: sessionId, cwd: cwd, start: start}
}

// User appends a user turn with plain string content.
func (b *SessionBuilder) User(text string) *SessionBuilder {
	b.records = append(b.records, b.record("user", Message{Role: "user", Content: text}))
	return b
}

// Assistant appends an assistant turn with structured text content.
func (b *SessionBuilder) Assistant(text string) *SessionBuilder {
	b.records = append(b.records, b.record("assistant", Message{
		Role:    "assistant",
		Content: []any{TextItem{Type: "text", Text: text}},
	}))
	return b
}

// AssistantTool appends an assistant turn invoking a tool.
func (b *SessionBuilder) AssistantTool(name string, input map[string]any) *SessionBuilder {
	b.records = append(b.records, b.record("assistant", Message{
		Role:    "assistant",
		Content: []any{ToolUse{Type: "tool_use", Name: name, Input: input}},
	}))
	return b
}

// Meta appends a meta-flagged record that must never render.
func (b *SessionBuilder) Meta(text string) *SessionBuilder {
	r := b.record("user", Message{Role: "user", Content: text})
	r.IsMeta = true
	b.records = append(b.records, r)
	return b
}

// Raw appends a verbatim line, valid JSON or not.
func (b *SessionBuilder) Raw(line string) *SessionBuilder {
	b.records = append(b.records, Record{})
	b.rawLines = append(b.rawLines, rawLine{index: len(b.records) - 1, text: line})
	return b
}

type rawLine struct {
	index int
	text  string
}

// Write emits the session as line-delimited JSON, padded with
// trailing spaces per line until the file clears minSize bytes.
func (b *SessionBuilder) Write(path string, minSize int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	raws := make(map[int]string, len(b.rawLines))
	for _, rl := range b.rawLines {
		raws[rl.index] = rl.text
	}

	var sb strings.Builder
	for i, record := range b.records {
		if text, ok := raws[i]; ok {
			sb.WriteString(text)
			sb.WriteString("\n")
			continue
		}
		data, err := sonic.Marshal(record)
		if err != nil {
			return err
		}
		sb.Write(data)
		sb.WriteString("\n")
	}

	content := sb.String()
	if len(content) < minSize {
		content += strings.Repeat(" ", minSize-len(content)) + "\n"
	}

	return os.WriteFile(path, []byte(content), 0644)
}

func (b *SessionBuilder) record(recordType string, msg Message) Record {
	r := Record{
		Cwd:       b.cwd,
		Message:   msg,
		SessionId: b.sessionId,
		Timestamp: b.start.Add(time.Duration(len(b.records)) * 5 * time.Second).Format(time.RFC3339),
		Type:      recordType,
		Uuid:      "uuid-" + b.sessionId[:minInt(8, len(b.sessionId))],
	}
	return r
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
