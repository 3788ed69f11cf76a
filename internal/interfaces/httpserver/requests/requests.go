package requests

// FetchCandidatesRequest asks for the image candidates on a product page.
type FetchCandidatesRequest struct {
	URL string `json:"url" binding:"required"`
}

// ImportAddRequest ingests a previously selected image URL. PageURL is
// optional context for name fallbacks.
type ImportAddRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
	PageURL  string `json:"page_url"`
	Name     string `json:"name"`
	ItemType string `json:"item_type"`
}

// RegisterRequest provisions an API account and issues its first token.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
}

// CreateLookRequest composes wardrobe items into a look.
type CreateLookRequest struct {
	Title   string  `json:"title" binding:"required"`
	ItemIDs []int64 `json:"item_ids" binding:"required"`
	Notes   string  `json:"notes"`
}

// CreateAnalysisRequest stores a stylist verdict, optionally tied to a look.
type CreateAnalysisRequest struct {
	LookID  string  `json:"look_id"`
	Verdict string  `json:"verdict" binding:"required"`
	Score   float64 `json:"score"`
	Details string  `json:"details"`
}
