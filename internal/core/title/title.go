package title

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/penwyp/go-claude-backup/internal/core/model"
)

const (
	// DefaultMaxLength bounds extracted titles so they stay usable
	// as filename fragments.
	DefaultMaxLength = 30

	minTitleLength = 3

	// Word-boundary cuts are only kept when the surviving fragment
	// is at least this long; otherwise a hard cut is used.
	minBoundaryCut = 10
)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\n\r\t]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Extractor derives a short session title from early user messages.
type Extractor struct {
	MaxLength int
}

// NewExtractor creates an extractor with the given length bound;
// non-positive values fall back to the default.
func NewExtractor(maxLength int) *Extractor {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Extractor{MaxLength: maxLength}
}

// Extract scans user records in order and returns the first text that
// reduces to a qualifying title, or an empty string when none does.
// Callers fall back to a session identifier fragment.
func (e *Extractor) Extract(records []model.SessionRecord) string {
	for _, record := range records {
		if record.Role() != model.RoleUser {
			continue
		}

		text := plainText(record.Message.Content)
		if text == "" {
			continue
		}

		// Command and system-injected messages make poor titles.
		if strings.HasPrefix(text, "<") || strings.HasPrefix(text, "/") {
			continue
		}

		if title := e.reduce(text); len([]rune(title)) >= minTitleLength {
			return title
		}
	}

	return ""
}

// reduce turns free-form message text into a filename-safe fragment.
func (e *Extractor) reduce(text string) string {
	text = strings.TrimSpace(text)

	if label := reduceURL(text); label != "" {
		text = label
	} else if label := reducePath(text); label != "" {
		text = label
	} else {
		text = firstSentence(text)
	}

	text = illegalChars.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	return e.truncate(text)
}

// firstSentence cuts at the first sentence terminator.
func firstSentence(text string) string {
	for _, sep := range []string{".", "?", "!"} {
		if idx := strings.Index(text, sep); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// truncate bounds the title length, preferring a word-boundary cut
// when the remaining fragment is long enough to read.
func (e *Extractor) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= e.MaxLength {
		return text
	}

	hard := string(runes[:e.MaxLength])
	if idx := strings.LastIndex(hard, " "); idx >= minBoundaryCut {
		return hard[:idx]
	}
	return hard
}

// reduceURL maps URL-shaped text to a host or repo label. It only
// applies when the whole text is a single URL token.
func reduceURL(text string) string {
	if strings.ContainsAny(text, " \t") {
		return ""
	}
	if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
		return ""
	}

	u, err := url.Parse(text)
	if err != nil || u.Host == "" {
		return ""
	}

	if segment := path.Base(strings.Trim(u.Path, "/")); segment != "" && segment != "." {
		return strings.TrimSuffix(segment, ".git")
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// reducePath maps filesystem-path-shaped text to a bare filename
// without extension. It only applies when the whole text is a single
// path token.
func reducePath(text string) string {
	if strings.ContainsAny(text, " \t") || !strings.Contains(text, "/") {
		return ""
	}
	if !strings.HasPrefix(text, "/") && !strings.HasPrefix(text, "~/") && !strings.HasPrefix(text, "./") {
		return ""
	}

	base := path.Base(text)
	return strings.TrimSuffix(base, path.Ext(base))
}

// plainText joins the text items of a message, ignoring tool calls
// and other structured content.
func plainText(content model.FlexibleContent) string {
	var texts []string
	for _, item := range content {
		if item.Type == "text" && item.Text != "" {
			texts = append(texts, item.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}
