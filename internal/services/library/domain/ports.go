package domain

import "context"

// ListFilter narrows and pages a content listing
type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}

// CreateInput is the data needed to store a new item
type CreateInput struct {
	Title    string
	Category string
	Body     string
	Tags     []string
}

// UpdateInput carries a partial update; nil fields are left untouched
type UpdateInput struct {
	Title *string
	Body  *string
	Tags  []string
}

// SlotEdit addresses one slot of an item's tag layout
// an empty Tag clears the slot
type SlotEdit struct {
	Category string
	Ordinal  int
	Tag      string
}

// ReaderPort reads content items
type ReaderPort interface {
	List(ctx context.Context, f ListFilter) ([]ContentItem, error)
	Get(ctx context.Context, id string) (ContentItem, error)
}

// WriterPort mutates content items
type WriterPort interface {
	Create(ctx context.Context, in CreateInput) (ContentItem, error)
	Update(ctx context.Context, id string, in UpdateInput) (ContentItem, error)
	Delete(ctx context.Context, id string) error
}

// TaggerPort edits an item's tags through the slot model
type TaggerPort interface {
	ReplaceTags(ctx context.Context, id string, tags []string) (ContentItem, error)
	EditSlot(ctx context.Context, id string, edit SlotEdit) (ContentItem, error)
}
