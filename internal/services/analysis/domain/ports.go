package domain

import "context"

// Fetcher reads the remote view of a content item by id.
// Implementations map missing rows to not-found errors and network
// failures to transport errors
type Fetcher interface {
	FetchContent(ctx context.Context, id string) (Snapshot, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, id string) (Snapshot, error)

// FetchContent calls the underlying function
func (f FetcherFunc) FetchContent(ctx context.Context, id string) (Snapshot, error) {
	return f(ctx, id)
}

// Analysis is the derived output of one analyzer run
type Analysis struct {
	KeyThemes        []string
	ThoughtQuestions []string
}

// Analyzer produces themes and questions for a piece of content.
// Implementations wrap one external model provider each
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, title, category, body string) (Analysis, error)
}

// WatcherPort is the session surface exposed to sibling modules.
// Watch is the guarded entry; StartSession bypasses the body gate
type WatcherPort interface {
	Watch(ctx context.Context, id string) (State, bool, error)
	StartSession(ctx context.Context, id string)
	CancelSession(id string)
	State(id string) State
}
