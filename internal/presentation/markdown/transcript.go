package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-claude-backup/internal/core/model"
	"github.com/penwyp/go-claude-backup/internal/util"
)

// maxGroupLength bounds one rendered block; anything longer gains a
// visible truncation marker.
const maxGroupLength = 10000

const sessionIdFragmentLength = 8

// Group is a run of consecutive same-role messages merged into one
// rendered block. A user group never holds more than one message.
type Group struct {
	Role  string
	Time  string
	Texts []string
}

// TranscriptRenderer converts an ordered session into a Markdown
// document.
type TranscriptRenderer struct {
	timeProvider *util.TimeProvider
}

// NewTranscriptRenderer creates a renderer using the global
// timezone-aware time provider.
func NewTranscriptRenderer() *TranscriptRenderer {
	return &TranscriptRenderer{timeProvider: util.GetTimeProvider()}
}

// Render produces the full Markdown transcript for one session.
func (r *TranscriptRenderer) Render(records []model.SessionRecord, projectName string) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# %s\n\n", projectName))
	r.writeSessionInfo(&md, records)

	for _, g := range BuildGroups(records, r.timeProvider) {
		r.writeGroup(&md, g)
	}

	return md.String()
}

func (r *TranscriptRenderer) writeSessionInfo(md *strings.Builder, records []model.SessionRecord) {
	var sessionId string
	for _, record := range records {
		if record.SessionId != "" {
			sessionId = record.SessionId
			break
		}
	}

	if sessionId != "" {
		fragment := sessionId
		if len(fragment) > sessionIdFragmentLength {
			fragment = fragment[:sessionIdFragmentLength]
		}
		md.WriteString(fmt.Sprintf("> Session: `%s...`\n", fragment))
	}

	if started := FirstTimestamp(records); !started.IsZero() {
		md.WriteString(fmt.Sprintf("> Started: %s\n", r.timeProvider.Format(started, "2006-01-02 15:04")))
	}

	md.WriteString("\n---\n\n")
}

func (r *TranscriptRenderer) writeGroup(md *strings.Builder, g Group) {
	text := strings.Join(g.Texts, "\n\n")
	if runes := []rune(text); len(runes) > maxGroupLength {
		text = string(runes[:maxGroupLength]) + "\n\n> [Truncated due to length]"
	}

	if g.Role == model.RoleUser {
		md.WriteString(fmt.Sprintf("## 🧑 User (%s)\n\n", g.Time))
		for _, line := range strings.Split(text, "\n") {
			md.WriteString(fmt.Sprintf("> %s\n", line))
		}
		md.WriteString("\n---\n\n")
	} else {
		md.WriteString(fmt.Sprintf("## 🤖 Claude (%s)\n\n%s\n\n---\n\n", g.Time, text))
	}
}

// BuildGroups walks the session and merges consecutive messages into
// rendered blocks. A new group starts whenever the role changes, and
// immediately after any user message, so consecutive assistant
// messages merge but user messages stay alone.
func BuildGroups(records []model.SessionRecord, tp *util.TimeProvider) []Group {
	var groups []Group
	current := Group{}

	flush := func() {
		if len(current.Texts) > 0 {
			groups = append(groups, current)
		}
		current = Group{}
	}

	for _, record := range records {
		if record.IsMeta {
			continue
		}

		role := record.Role()
		if role == "" {
			continue
		}

		text := ExtractText(record.Message.Content)
		if text == "" || isInternalText(text) {
			continue
		}

		timeStr := ""
		if ts := record.Time(); !ts.IsZero() {
			timeStr = tp.Format(ts, "15:04")
		}

		if role != current.Role && len(current.Texts) > 0 {
			flush()
		}

		current.Role = role
		if current.Time == "" {
			current.Time = timeStr
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			current.Texts = append(current.Texts, trimmed)
		}

		if role == model.RoleUser {
			flush()
		}
	}

	flush()
	return groups
}

// isInternalText reports command-injection noise that should never be
// rendered.
func isInternalText(text string) bool {
	return strings.HasPrefix(text, "<local-command") || strings.HasPrefix(text, "<command-name>")
}

// FirstTimestamp returns the earliest parseable timestamp in file
// order, or the zero time.
func FirstTimestamp(records []model.SessionRecord) time.Time {
	for _, record := range records {
		if ts := record.Time(); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}
