package model

import "time"

// GenerationRequest is the user's selection for one generation cycle.
// The binding tags are checked by gin; `theme` and `era` are custom validators
// backed by the catalogs.
type GenerationRequest struct {
	Theme       string  `json:"theme" form:"theme" binding:"required,theme"`
	Era         string  `json:"era" form:"era" binding:"required,era"`
	Model       string  `json:"model" form:"model"`
	Temperature float64 `json:"temperature" form:"temperature" binding:"gte=0,lte=1"`
}

// GenerationResult pairs the raw quote response with the resolved image.
// An empty ImageURL is the "no image" marker.
type GenerationResult struct {
	Raw        string
	Quote      Quote
	ImageQuery string
	ImageURL   string
	// Repeated is set when the extracted quote was already in the session's
	// prior-quotes set, meaning the backend ignored the exclusion list.
	Repeated bool
}

// HasImage reports whether the image lookup produced a URL.
func (r *GenerationResult) HasImage() bool {
	return r.ImageURL != ""
}

// Call purposes recorded in the ledger.
const (
	PurposeQuote      = "quote"
	PurposeImageQuery = "image_query"
)

// LLMCall tracks each text-generation call for cost monitoring.
type LLMCall struct {
	ID         int64     `db:"id" json:"id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	Purpose    string    `db:"purpose" json:"purpose"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
