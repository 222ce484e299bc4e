package parser

import (
	"bufio"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-backup/internal/core/model"
	"github.com/penwyp/go-claude-backup/internal/util"
)

// Parser reads session transcript files line by line.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile parses the session file at the specified path. Lines that
// are not valid JSON are dropped; the returned slice preserves file
// order. An empty slice means the file held no parsable record and
// callers must skip it.
func (p *Parser) ParseFile(filepath string) ([]model.SessionRecord, error) {
	util.LogDebug(fmt.Sprintf("Start parsing file: %s", filepath))

	file, err := os.Open(filepath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", filepath, err))
		return nil, err
	}
	defer file.Close()

	var records []model.SessionRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		var record model.SessionRecord
		if err := sonic.Unmarshal(scanner.Bytes(), &record); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s:%d - %v", filepath, lineCount, err))
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		util.LogDebug(fmt.Sprintf("Error scanning file: %s - %v", filepath, err))
		return nil, err
	}

	util.LogDebug(fmt.Sprintf("Parsed %d of %d lines from %s", len(records), lineCount, filepath))
	return records, nil
}
