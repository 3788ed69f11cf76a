package entities

import "time"

// Look is a user-composed outfit referencing wardrobe items by id.
type Look struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PublicID  string `gorm:"type:varchar(40);uniqueIndex;not null"`
	UserID    int64  `gorm:"index;not null"`
	Title     string `gorm:"type:varchar(200)"`
	ItemIDs   string `gorm:"type:text"` // JSON-encoded list of wardrobe item ids
	Notes     string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Look) TableName() string {
	return "looks"
}

// Analysis is a stored outfit analysis for a look.
type Analysis struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PublicID  string `gorm:"type:varchar(40);uniqueIndex;not null"`
	UserID    int64  `gorm:"index;not null"`
	LookID    int64  `gorm:"index"`
	Verdict   string `gorm:"type:varchar(64)"`
	Score     float64
	Details   string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Analysis) TableName() string {
	return "analyses"
}
