package wardrobe

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"stylist-server/internal/domain/ingest"
	domain "stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/database/entities"
	"stylist-server/internal/utils/platformerrors"
)

// Repository persists wardrobe items. It serves both the ingestion
// pipeline (hash lookups, inserts) and the listing/deletion surface.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserAndHash returns (nil, nil) when the user has no item with
// this content hash.
func (r *Repository) FindByUserAndHash(ctx context.Context, userID int64, hash string) (*ingest.Record, error) {
	var entity entities.WardrobeItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND photo_hash = ?", userID, hash).
		First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to find item by hash", err)
	}
	rec := mapRecord(entity)
	return &rec, nil
}

// Create inserts the item in a transaction and fills the generated id
// and timestamp back into rec.
func (r *Repository) Create(ctx context.Context, rec *ingest.Record) error {
	entity := entities.WardrobeItem{
		UserID:      rec.UserID,
		ItemName:    rec.ItemName,
		ItemType:    rec.ItemType,
		PhotoURL:    rec.PhotoURL,
		PhotoHash:   rec.PhotoHash,
		StorageKey:  rec.StorageKey,
		Colors:      rec.Colors,
		Description: rec.Description,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entity).Error
	})
	if err != nil {
		return platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create wardrobe item", err)
	}
	rec.ID = entity.ID
	rec.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.Item, error) {
	var rows []entities.WardrobeItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list wardrobe items", err)
	}
	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapItem(row))
	}
	return items, nil
}

func (r *Repository) GetByID(ctx context.Context, userID, itemID int64) (*domain.Item, error) {
	var entity entities.WardrobeItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get wardrobe item", err)
	}
	item := mapItem(entity)
	return &item, nil
}

// Delete removes the row and reports the photo URL so the caller can
// clean up storage.
func (r *Repository) Delete(ctx context.Context, userID, itemID int64) (string, error) {
	var photoURL string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.WardrobeItem
		if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&entity).Error; err != nil {
			return err
		}
		photoURL = entity.PhotoURL
		return tx.Delete(&entity).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", platformerrors.New(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "Предмет не найден", err)
		}
		return "", platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to delete wardrobe item", err)
	}
	return photoURL, nil
}

func mapRecord(entity entities.WardrobeItem) ingest.Record {
	return ingest.Record{
		ID:          entity.ID,
		UserID:      entity.UserID,
		ItemName:    entity.ItemName,
		ItemType:    entity.ItemType,
		PhotoURL:    entity.PhotoURL,
		PhotoHash:   entity.PhotoHash,
		StorageKey:  entity.StorageKey,
		Colors:      entity.Colors,
		Description: entity.Description,
		CreatedAt:   entity.CreatedAt,
	}
}

func mapItem(entity entities.WardrobeItem) domain.Item {
	var colors []string
	if entity.Colors != "" {
		// Rows written before color classification may hold junk; an
		// empty list is the safe reading.
		_ = json.Unmarshal([]byte(entity.Colors), &colors)
	}
	return domain.Item{
		ID:          entity.ID,
		ItemName:    entity.ItemName,
		ItemType:    entity.ItemType,
		PhotoURL:    entity.PhotoURL,
		Colors:      colors,
		Description: entity.Description,
		CreatedAt:   entity.CreatedAt,
	}
}
