// Package domain holds the stash draft and custom tag types
package domain

import (
	"context"
	"time"
)

// Draft is unsaved editor state parked between sessions
type Draft struct {
	ContentID string    `json:"content_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	SavedAt   time.Time `json:"saved_at"`
}

// DraftRequest is the write payload for a draft
type DraftRequest struct {
	Title string   `json:"title" validate:"max=200"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags" validate:"max=5,dive,max=80"`
}

// CustomTagRequest adds one user-defined tag to the vocabulary
type CustomTagRequest struct {
	Tag string `json:"tag" validate:"required,min=1,max=80"`
}

// StashPort is the surface exposed to sibling modules
type StashPort interface {
	SaveDraft(ctx context.Context, id string, d Draft) error
	LoadDraft(ctx context.Context, id string) (Draft, error)
	DropDraft(ctx context.Context, id string) error
	CustomTags(ctx context.Context) ([]string, error)
	AddCustomTag(ctx context.Context, tag string) error
	RemoveCustomTag(ctx context.Context, tag string) error
}
