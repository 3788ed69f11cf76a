package entities

import "time"

// WardrobeItem represents one persisted clothing item. PhotoHash is the
// sha256 of the canonical image bytes and is the idempotency key for
// repeated ingests of the same photo by the same user.
type WardrobeItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      int64     `gorm:"index;not null"`
	ItemName    string    `gorm:"type:varchar(200);not null"`
	ItemType    string    `gorm:"type:varchar(64);not null;default:'other'"`
	PhotoURL    string    `gorm:"type:varchar(512);not null"`
	PhotoHash   string    `gorm:"type:char(64);index"`
	StorageKey  string    `gorm:"type:varchar(255)"`
	Colors      string    `gorm:"type:text"` // JSON-encoded list
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (WardrobeItem) TableName() string {
	return "wardrobe_items"
}
