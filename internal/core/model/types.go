package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// SessionRecord is one line of a session transcript file.
type SessionRecord struct {
	Cwd       string  `json:"cwd,omitempty"`
	IsMeta    bool    `json:"isMeta,omitempty"`
	Message   Message `json:"message,omitempty"`
	SessionId string  `json:"sessionId,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Type      string  `json:"type,omitempty"`
	UserType  string  `json:"userType,omitempty"`
	Uuid      string  `json:"uuid,omitempty"`
	Version   string  `json:"version,omitempty"`
}

type Message struct {
	Content FlexibleContent `json:"content,omitempty"`
	Role    string          `json:"role,omitempty"`
	Type    string          `json:"type,omitempty"`
}

// FlexibleContent normalizes the two content shapes found in session
// files: a bare string, or an array of typed content items. A string
// becomes a single text item.
type FlexibleContent []ContentItem

func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	var items []ContentItem
	if err := sonic.Unmarshal(data, &items); err == nil {
		*fc = items
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		*fc = []ContentItem{{Type: "text", Text: str}}
		return nil
	}

	return fmt.Errorf("content must be either string or array of ContentItem")
}

type ContentItem struct {
	Input ToolInput `json:"input,omitempty"`
	Name  string    `json:"name,omitempty"`
	Text  string    `json:"text,omitempty"`
	Type  string    `json:"type"`
}

type ToolInput struct {
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Path        string `json:"path,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
}

// FileEvent describes a filesystem change observed by the watcher.
type FileEvent struct {
	Path      string
	Operation string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Role classifies the record as user or assistant, or returns an
// empty string for system events, summaries and other noise.
func (r *SessionRecord) Role() string {
	if r.Type == RoleUser || r.Message.Role == RoleUser {
		return RoleUser
	}
	if r.Type == RoleAssistant || r.Message.Role == RoleAssistant {
		return RoleAssistant
	}
	return ""
}

// Time parses the record timestamp. The zero time is returned when
// the timestamp is absent or malformed.
func (r *SessionRecord) Time() time.Time {
	if r.Timestamp == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, r.Timestamp); err == nil {
		return t
	}
	return time.Time{}
}
