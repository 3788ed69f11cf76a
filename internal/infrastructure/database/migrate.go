package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"stylist-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.User{},
		&entities.WardrobeItem{},
		&entities.Look{},
		&entities.Analysis{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied schema migrations")
	return nil
}
