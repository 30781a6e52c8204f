// Package domain defines the types and interfaces for the library service
package domain

import (
	"strings"
	"time"
)

// ProcessingStatus is the server-computed state of the async analysis job
type ProcessingStatus uint8

const (
	// StatusPending means analysis is queued or running
	StatusPending ProcessingStatus = iota
	// StatusCompleted means derived fields are available
	StatusCompleted
	// StatusFailed means analysis gave up for this save
	StatusFailed
	// StatusUnknown covers any unrecognized wire value
	StatusUnknown
)

// ParseProcessingStatus maps a wire string to a ProcessingStatus
// anything outside the three known values is Unknown
func ParseProcessingStatus(s string) ProcessingStatus {
	switch s {
	case "pending":
		return StatusPending
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// String returns the wire form of a status
func (p ProcessingStatus) String() string {
	switch p {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ContentItem is a stored library entry with its analysis-derived fields
type ContentItem struct {
	ID               string
	Title            string
	Category         string
	Body             string
	Tags             []string
	WordCount        int
	SizeBytes        int
	ProcessingStatus string
	KeyThemes        []string
	ThoughtQuestions []string
	LastError        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Status parses the item's wire status
func (c ContentItem) Status() ProcessingStatus {
	return ParseProcessingStatus(c.ProcessingStatus)
}

// SubstantialBodyChars is the minimum body length that queues analysis
const SubstantialBodyChars = 100

// Substantial reports whether a body is long enough to analyze
func Substantial(body string) bool {
	return len(strings.TrimSpace(body)) >= SubstantialBodyChars
}

// WordCount counts whitespace separated words the way the store records them
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// Category is a selectable content grouping
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories returns the fixed selectable content categories
func Categories() []Category {
	return []Category{
		{Value: "sermons", Label: "Sermons"},
		{Value: "study-notes", Label: "Study Notes"},
		{Value: "research", Label: "Research"},
		{Value: "journal", Label: "Journal"},
		{Value: "bookmarks", Label: "Bookmarks"},
	}
}

// ValidCategory reports whether v names a known category
func ValidCategory(v string) bool {
	for _, c := range Categories() {
		if c.Value == v {
			return true
		}
	}
	return false
}
