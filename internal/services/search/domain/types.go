// Package domain holds the search query and result types
package domain

import "context"

// Query is one search request
type Query struct {
	Text     string
	Category string
	Limit    int
	Offset   int
}

// Result is one hit, trimmed for list rendering
type Result struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Snippet  string   `json:"snippet"`
	Tags     []string `json:"tags"`
}

// Response is the search envelope returned to callers
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

// SearcherPort is the query surface exposed to sibling modules
type SearcherPort interface {
	Search(ctx context.Context, q Query) Response
}
