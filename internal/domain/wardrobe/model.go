package wardrobe

import "time"

// User is an account row. Telegram users carry their real tg_id;
// API-only accounts get synthetic negative ids so the two namespaces
// never collide.
type User struct {
	ID          int64     `json:"id"`
	TgID        int64     `json:"tg_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item is a wardrobe entry as handed to clients.
type Item struct {
	ID          int64     `json:"id"`
	ItemName    string    `json:"item_name"`
	ItemType    string    `json:"item_type"`
	PhotoURL    string    `json:"photo_url"`
	Colors      []string  `json:"colors"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Look is a named combination of wardrobe items.
type Look struct {
	ID        int64     `json:"-"`
	PublicID  string    `json:"id"`
	UserID    int64     `json:"-"`
	Title     string    `json:"title"`
	ItemIDs   []int64   `json:"item_ids"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Analysis is a stored stylist verdict over a look.
type Analysis struct {
	ID        int64     `json:"-"`
	PublicID  string    `json:"id"`
	UserID    int64     `json:"-"`
	LookID    string    `json:"look_id,omitempty"`
	Verdict   string    `json:"verdict"`
	Score     float64   `json:"score"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
