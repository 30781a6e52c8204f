package domain

// CreateRequest is the JSON payload for creating a content item
type CreateRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=300"`
	Category string   `json:"category" validate:"required"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags" validate:"max=5,dive,max=80"`
}

// UpdateRequest is the JSON payload for a partial update
type UpdateRequest struct {
	Title *string  `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Body  *string  `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,max=5,dive,max=80"`
}

// ReplaceTagsRequest replaces the whole flat tag list
type ReplaceTagsRequest struct {
	Tags []string `json:"tags" validate:"max=5,dive,max=80"`
}

// SlotEditRequest edits a single slot of the tag layout
type SlotEditRequest struct {
	Category string `json:"category" validate:"required,oneof=area_of_focus content_purpose tone_style custom"`
	Ordinal  int    `json:"ordinal" validate:"min=0,max=4"`
	Tag      string `json:"tag" validate:"max=80"`
}

// ItemResponse is the wire form of a content item
type ItemResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Category         string   `json:"category"`
	Body             string   `json:"body,omitempty"`
	Tags             []string `json:"tags"`
	WordCount        int      `json:"word_count"`
	ProcessingStatus string   `json:"processing_status"`
	KeyThemes        []string `json:"key_themes,omitempty"`
	ThoughtQuestions []string `json:"thought_questions,omitempty"`
	LastError        string   `json:"last_error,omitempty"`
	DateCreated      string   `json:"date_created"`
	DateModified     string   `json:"date_modified"`
}

// ToResponse converts a ContentItem for the wire
// includeBody controls whether the full text rides along (list vs get)
func ToResponse(it ContentItem, includeBody bool) ItemResponse {
	out := ItemResponse{
		ID:               it.ID,
		Title:            it.Title,
		Category:         it.Category,
		Tags:             it.Tags,
		WordCount:        it.WordCount,
		ProcessingStatus: it.ProcessingStatus,
		KeyThemes:        it.KeyThemes,
		ThoughtQuestions: it.ThoughtQuestions,
		LastError:        it.LastError,
		DateCreated:      it.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		DateModified:     it.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if includeBody {
		out.Body = it.Body
	}
	return out
}
