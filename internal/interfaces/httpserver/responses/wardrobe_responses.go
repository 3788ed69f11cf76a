package responses

import (
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/domain/wardrobe"
)

// CandidatesResponse lists scraped image candidates.
type CandidatesResponse struct {
	Count      int                `json:"count"`
	Title      string             `json:"title"`
	Candidates []ingest.Candidate `json:"candidates"`
}

// ImportResponse reports a finished ingest.
type ImportResponse struct {
	Success  bool   `json:"success"`
	ItemID   int64  `json:"item_id"`
	PhotoURL string `json:"photo_url"`
	ItemName string `json:"item_name"`
	Deduped  bool   `json:"deduped,omitempty"`
}

// ItemsResponse lists the caller's wardrobe.
type ItemsResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Items   []wardrobe.Item `json:"items"`
}

// LookResponse wraps a single look.
type LookResponse struct {
	Success bool           `json:"success"`
	Look    *wardrobe.Look `json:"look"`
}

// LooksResponse lists looks.
type LooksResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Looks   []wardrobe.Look `json:"looks"`
}

// AnalysisResponse wraps a single analysis.
type AnalysisResponse struct {
	Success  bool               `json:"success"`
	Analysis *wardrobe.Analysis `json:"analysis"`
}

// AnalysesResponse lists analyses.
type AnalysesResponse struct {
	Success  bool                `json:"success"`
	Count    int                 `json:"count"`
	Analyses []wardrobe.Analysis `json:"analyses"`
}

// ProfileResponse wraps the caller's account.
type ProfileResponse struct {
	Success bool           `json:"success"`
	User    *wardrobe.User `json:"user"`
}

// RegisterResponse carries the new account and its bearer token.
type RegisterResponse struct {
	Success bool           `json:"success"`
	Token   string         `json:"token"`
	User    *wardrobe.User `json:"user"`
}

// SuccessResponse is the minimal acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}
