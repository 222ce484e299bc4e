package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-backup/internal/testing/fixtures"
)

func TestPreviewContentFromTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	err := fixtures.NewSession("aabbccdd-0011-2233-4455-66778899aabb", "/work/demo", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)).
		User("Show me the transcript").
		Assistant("Here it is.").
		Write(path, 0)
	require.NoError(t, err)

	content, err := previewContent(path)

	require.NoError(t, err)
	assert.Contains(t, content, "# demo")
	assert.Contains(t, content, "> Show me the transcript")
	assert.Contains(t, content, "Here it is.")
}

func TestPreviewContentFromMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converted.md")
	require.NoError(t, os.WriteFile(path, []byte("# already converted\n"), 0644))

	content, err := previewContent(path)

	require.NoError(t, err)
	assert.Equal(t, "# already converted\n", content)
}

func TestPreviewContentEmptyTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0644))

	_, err := previewContent(path)

	assert.Error(t, err)
}
