package entities

import "time"

// User represents an account. TgID is the messaging-platform id; API-only
// accounts get a synthetic negative TgID so the two namespaces never mix.
type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	TgID        int64     `gorm:"uniqueIndex;not null"`
	Username    string    `gorm:"type:varchar(64)"`
	DisplayName string    `gorm:"type:varchar(128)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
