// Package domain holds the analysis session types and ports
package domain

import "strings"

// Status is the lifecycle state of one watch session
type Status uint8

const (
	// StatusIdle means no session is active for the id
	StatusIdle Status = iota
	// StatusPending means the session is polling for a result
	StatusPending
	// StatusCompleted means analysis finished and derived fields are present
	StatusCompleted
	// StatusFailed means analysis failed, the fetch failed, or the remote
	// reported a status we do not recognize
	StatusFailed
	// StatusTimedOut means the polling ceiling elapsed before resolution
	StatusTimedOut
)

// String returns the wire name of the status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "idle"
	}
}

// Terminal reports whether the session can never transition again
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimedOut
}

// Snapshot is the remote view of a content item as seen by one fetch.
// It is the only thing a session ever caches
type Snapshot struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Category         string   `json:"category"`
	Body             string   `json:"body,omitempty"`
	Tags             []string `json:"tags"`
	ProcessingStatus string   `json:"processing_status"`
	KeyThemes        []string `json:"key_themes"`
	ThoughtQuestions []string `json:"thought_questions"`
	LastError        string   `json:"last_error,omitempty"`
}

// RemoteStatus classifies the raw processing_status string.
// Anything outside the three known values is unknown
type RemoteStatus uint8

const (
	RemotePending RemoteStatus = iota
	RemoteCompleted
	RemoteFailed
	RemoteUnknown
)

// ParseRemoteStatus maps the wire string onto a RemoteStatus
func ParseRemoteStatus(s string) RemoteStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return RemotePending
	case "completed":
		return RemoteCompleted
	case "failed":
		return RemoteFailed
	default:
		return RemoteUnknown
	}
}

// SubstantialBodyChars is the minimum trimmed body length that makes a
// save worth watching for analysis results
const SubstantialBodyChars = 100

// ShouldWatch reports whether a freshly saved item warrants a watch
// session: the body is substantial and no themes have landed yet
func ShouldWatch(body string, themes []string) bool {
	return len(strings.TrimSpace(body)) >= SubstantialBodyChars && len(themes) == 0
}

// State is the subscribable value a session exposes to callers
type State struct {
	Status   Status    `json:"status"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Err      string    `json:"error,omitempty"`
}
