package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-backup/internal/core/model"
	"github.com/penwyp/go-claude-backup/internal/util"
)

func user(text, ts string) model.SessionRecord {
	return model.SessionRecord{
		Type:      "user",
		Timestamp: ts,
		Message: model.Message{
			Role:    "user",
			Content: model.FlexibleContent{{Type: "text", Text: text}},
		},
	}
}

func assistant(text, ts string) model.SessionRecord {
	return model.SessionRecord{
		Type:      "assistant",
		Timestamp: ts,
		Message: model.Message{
			Role:    "assistant",
			Content: model.FlexibleContent{{Type: "text", Text: text}},
		},
	}
}

func TestBuildGroupsMergesConsecutiveAssistant(t *testing.T) {
	records := []model.SessionRecord{
		user("question", "2025-03-14T09:00:00Z"),
		assistant("part one", "2025-03-14T09:00:05Z"),
		assistant("part two", "2025-03-14T09:00:10Z"),
	}

	groups := BuildGroups(records, util.GetTimeProvider())

	require.Len(t, groups, 2)
	assert.Equal(t, model.RoleUser, groups[0].Role)
	assert.Equal(t, []string{"question"}, groups[0].Texts)
	assert.Equal(t, model.RoleAssistant, groups[1].Role)
	assert.Equal(t, []string{"part one", "part two"}, groups[1].Texts)
}

func TestBuildGroupsUserMessagesNeverMerge(t *testing.T) {
	records := []model.SessionRecord{
		user("first", ""),
		user("second", ""),
	}

	groups := BuildGroups(records, util.GetTimeProvider())

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"first"}, groups[0].Texts)
	assert.Equal(t, []string{"second"}, groups[1].Texts)
}

func TestBuildGroupsSkipsMetaAndRoleless(t *testing.T) {
	records := []model.SessionRecord{
		{Type: "summary", Summary: "internal"},
		{Type: "user", IsMeta: true, Message: model.Message{Role: "user", Content: model.FlexibleContent{{Type: "text", Text: "meta"}}}},
		user("real", ""),
	}

	groups := BuildGroups(records, util.GetTimeProvider())

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"real"}, groups[0].Texts)
}

func TestBuildGroupsSkipsInternalContent(t *testing.T) {
	records := []model.SessionRecord{
		user("<local-command-stdout>noise</local-command-stdout>", ""),
		user("<command-name>clear</command-name>", ""),
		user("keep me", ""),
	}

	groups := BuildGroups(records, util.GetTimeProvider())

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"keep me"}, groups[0].Texts)
}

func TestBuildGroupsEmptyExtractedText(t *testing.T) {
	records := []model.SessionRecord{
		{Type: "assistant", Message: model.Message{Role: "assistant"}},
	}

	assert.Empty(t, BuildGroups(records, util.GetTimeProvider()))
}

func TestBuildGroupsExpectedCountForTurns(t *testing.T) {
	// 3 user turns, each answered by 2 assistant messages: 6 groups.
	var records []model.SessionRecord
	for i := 0; i < 3; i++ {
		records = append(records,
			user("ask", ""),
			assistant("answer a", ""),
			assistant("answer b", ""),
		)
	}

	groups := BuildGroups(records, util.GetTimeProvider())

	require.Len(t, groups, 6)
	for i, g := range groups {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, g.Role)
		} else {
			assert.Equal(t, model.RoleAssistant, g.Role)
			assert.Len(t, g.Texts, 2)
		}
	}
}

func TestRenderHeaderAndBlocks(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))

	records := []model.SessionRecord{
		{
			Type:      "user",
			SessionId: "00aec530-0614-436f-a53b-faaa0b32f123",
			Timestamp: "2025-03-14T09:26:00Z",
			Cwd:       "/work/demo",
			Message: model.Message{
				Role:    "user",
				Content: model.FlexibleContent{{Type: "text", Text: "hello there"}},
			},
		},
		assistant("hi, ready to help", "2025-03-14T09:26:05Z"),
	}

	out := NewTranscriptRenderer().Render(records, "demo")

	assert.True(t, strings.HasPrefix(out, "# demo\n\n"))
	assert.Contains(t, out, "> Session: `00aec530...`")
	assert.Contains(t, out, "> Started: 2025-03-14 09:26")
	assert.Contains(t, out, "## 🧑 User (09:26)")
	assert.Contains(t, out, "> hello there")
	assert.Contains(t, out, "## 🤖 Claude (09:26)")
	assert.Contains(t, out, "hi, ready to help")
	// every group ends with a separator
	assert.Equal(t, 3, strings.Count(out, "\n---\n"))
}

func TestRenderUserTextBlockQuoted(t *testing.T) {
	records := []model.SessionRecord{user("line one\nline two", "")}

	out := NewTranscriptRenderer().Render(records, "p")

	assert.Contains(t, out, "> line one\n> line two\n")
}

func TestRenderTruncatesLongBlocks(t *testing.T) {
	records := []model.SessionRecord{assistant(strings.Repeat("a", maxGroupLength+500), "")}

	out := NewTranscriptRenderer().Render(records, "p")

	assert.Contains(t, out, "> [Truncated due to length]")
	assert.NotContains(t, out, strings.Repeat("a", maxGroupLength+1))
}

func TestRenderNoSessionInfo(t *testing.T) {
	records := []model.SessionRecord{user("hello without metadata", "")}

	out := NewTranscriptRenderer().Render(records, "p")

	assert.NotContains(t, out, "> Session:")
	assert.NotContains(t, out, "> Started:")
}

func TestFirstTimestamp(t *testing.T) {
	records := []model.SessionRecord{
		{Timestamp: "not-a-time"},
		{Timestamp: "2025-03-14T10:00:00Z"},
		{Timestamp: "2025-03-14T09:00:00Z"},
	}

	first := FirstTimestamp(records)

	require.False(t, first.IsZero())
	assert.Equal(t, 10, first.UTC().Hour())
}
