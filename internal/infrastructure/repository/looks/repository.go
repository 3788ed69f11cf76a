package looks

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	domain "stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/database/entities"
	"stylist-server/internal/utils/platformerrors"
)

// Repository persists looks and their analyses.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLook(ctx context.Context, look *domain.Look) error {
	itemIDs, err := json.Marshal(look.ItemIDs)
	if err != nil {
		return platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "failed to encode look items", err)
	}
	entity := entities.Look{
		PublicID: look.PublicID,
		UserID:   look.UserID,
		Title:    look.Title,
		ItemIDs:  string(itemIDs),
		Notes:    look.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create look", err)
	}
	look.ID = entity.ID
	look.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) ListLooks(ctx context.Context, userID int64) ([]domain.Look, error) {
	var rows []entities.Look
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list looks", err)
	}
	looks := make([]domain.Look, 0, len(rows))
	for _, row := range rows {
		looks = append(looks, mapLook(row))
	}
	return looks, nil
}

func (r *Repository) GetLook(ctx context.Context, userID int64, publicID string) (*domain.Look, error) {
	var entity entities.Look
	err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get look", err)
	}
	look := mapLook(entity)
	return &look, nil
}

func (r *Repository) CreateAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	var lookID int64
	if analysis.LookID != "" {
		var look entities.Look
		err := r.db.WithContext(ctx).
			Where("public_id = ? AND user_id = ?", analysis.LookID, analysis.UserID).
			First(&look).Error
		if err != nil {
			return platformerrors.New(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to resolve look for analysis", err)
		}
		lookID = look.ID
	}

	entity := entities.Analysis{
		PublicID: analysis.PublicID,
		UserID:   analysis.UserID,
		LookID:   lookID,
		Verdict:  analysis.Verdict,
		Score:    analysis.Score,
		Details:  analysis.Details,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create analysis", err)
	}
	analysis.ID = entity.ID
	analysis.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) ListAnalyses(ctx context.Context, userID int64) ([]domain.Analysis, error) {
	var rows []entities.Analysis
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list analyses", err)
	}

	// Resolve internal look ids to public ones in a single query.
	lookIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.LookID != 0 {
			lookIDs = append(lookIDs, row.LookID)
		}
	}
	publicByID := make(map[int64]string, len(lookIDs))
	if len(lookIDs) > 0 {
		var lookRows []entities.Look
		if err := r.db.WithContext(ctx).Where("id IN ?", lookIDs).Find(&lookRows).Error; err != nil {
			return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError, "failed to resolve looks for analyses", err)
		}
		for _, look := range lookRows {
			publicByID[look.ID] = look.PublicID
		}
	}

	analyses := make([]domain.Analysis, 0, len(rows))
	for _, row := range rows {
		analyses = append(analyses, domain.Analysis{
			ID:        row.ID,
			PublicID:  row.PublicID,
			UserID:    row.UserID,
			LookID:    publicByID[row.LookID],
			Verdict:   row.Verdict,
			Score:     row.Score,
			Details:   row.Details,
			CreatedAt: row.CreatedAt,
		})
	}
	return analyses, nil
}

func mapLook(entity entities.Look) domain.Look {
	var itemIDs []int64
	if entity.ItemIDs != "" {
		_ = json.Unmarshal([]byte(entity.ItemIDs), &itemIDs)
	}
	return domain.Look{
		ID:        entity.ID,
		PublicID:  entity.PublicID,
		UserID:    entity.UserID,
		Title:     entity.Title,
		ItemIDs:   itemIDs,
		Notes:     entity.Notes,
		CreatedAt: entity.CreatedAt,
	}
}
