package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PageKeyPrefix prefixes the content key of every rasterized PDF page.
const PageKeyPrefix = "page_"

// Record is the persisted OCR output of one uploaded document.
type Record struct {
	Filename string            `json:"filename"`
	Content  map[string]string `json:"content"`
}

// PageImage represents a single rasterized PDF page
type PageImage struct {
	PageNumber int
	ImagePath  string // Path to temporary PNG file
	Width      int
	Height     int
}

// IngestResult is returned to the caller after a document has been stored.
type IngestResult struct {
	DocumentID string `json:"documentId"`
	Filename   string `json:"filename"`
}

// Role tags a chat message for the LLM.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of an LLM prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PageKey returns the content key for a 1-based page number.
func PageKey(pageNumber int) string {
	return fmt.Sprintf("%s%d", PageKeyPrefix, pageNumber)
}

// pageNumberOf parses "page_<n>" keys; ok is false for any other key.
func pageNumberOf(key string) (int, bool) {
	if !strings.HasPrefix(key, PageKeyPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, PageKeyPrefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SortedKeys returns the content keys with page keys first in numeric order
// (page_2 before page_10), followed by all other keys in lexical order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r.Content))
	for k := range r.Content {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iPage := pageNumberOf(keys[i])
		nj, jPage := pageNumberOf(keys[j])
		switch {
		case iPage && jPage:
			return ni < nj
		case iPage != jPage:
			return iPage
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// RenderContent renders every stored text under its key in SortedKeys order.
func (r Record) RenderContent() string {
	var b strings.Builder
	for i, k := range r.SortedKeys() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(k)
		b.WriteString("]\n")
		b.WriteString(r.Content[k])
	}
	return b.String()
}

// Clone returns a deep copy so callers can't mutate a shared content map.
func (r Record) Clone() Record {
	content := make(map[string]string, len(r.Content))
	for k, v := range r.Content {
		content[k] = v
	}
	return Record{Filename: r.Filename, Content: content}
}
