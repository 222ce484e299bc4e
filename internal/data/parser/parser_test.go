package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-backup/internal/core/model"
)

func writeSession(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestParseFileValidRecords(t *testing.T) {
	path := writeSession(t, `{"type":"user","cwd":"/home/dev/proj","message":{"role":"user","content":"hello"}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"hi"}]}}
`)

	p := NewParser()
	records, err := p.ParseFile(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.RoleUser, records[0].Role())
	assert.Equal(t, "/home/dev/proj", records[0].Cwd)
	assert.Equal(t, model.RoleAssistant, records[1].Role())
	assert.Equal(t, "hi", records[1].Message.Content[0].Text)
}

func TestParseFileDropsMalformedLines(t *testing.T) {
	path := writeSession(t, `{"type":"user","message":{"role":"user","content":"first"}}
this is not json
{"broken":
{"type":"assistant","message":{"role":"assistant","content":"second"}}
`)

	p := NewParser()
	records, err := p.ParseFile(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Message.Content[0].Text)
	assert.Equal(t, "second", records[1].Message.Content[0].Text)
}

func TestParseFileAllMalformed(t *testing.T) {
	path := writeSession(t, "garbage\nmore garbage\n")

	p := NewParser()
	records, err := p.ParseFile(path)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser()
	records, err := p.ParseFile(filepath.Join(t.TempDir(), "nope.jsonl"))

	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestParseFilePreservesOrder(t *testing.T) {
	path := writeSession(t, `{"type":"user","uuid":"a","message":{"role":"user","content":"1"}}
{"type":"assistant","uuid":"b","message":{"role":"assistant","content":"2"}}
{"type":"user","uuid":"c","message":{"role":"user","content":"3"}}
`)

	p := NewParser()
	records, err := p.ParseFile(path)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{records[0].Uuid, records[1].Uuid, records[2].Uuid})
}
