package users

import (
	"context"

	"gorm.io/gorm"

	domain "stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/database/entities"
	"stylist-server/internal/utils/platformerrors"
)

// Repository persists account rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get user", err)
	}
	user := mapUser(entity)
	return &user, nil
}

func (r *Repository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("tg_id = ?", tgID).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get user by tg id", err)
	}
	user := mapUser(entity)
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	entity := entities.User{
		TgID:        user.TgID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create user", err)
	}
	user.ID = entity.ID
	user.CreatedAt = entity.CreatedAt
	return nil
}

// MinNegativeTgID returns the lowest synthetic tg_id in use, or 0 when
// there are none.
func (r *Repository) MinNegativeTgID(ctx context.Context) (int64, error) {
	var min *int64
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("tg_id < 0").
		Select("MIN(tg_id)").
		Scan(&min).Error
	if err != nil {
		return 0, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to scan tg id namespace", err)
	}
	if min == nil {
		return 0, nil
	}
	return *min, nil
}

func mapUser(entity entities.User) domain.User {
	return domain.User{
		ID:          entity.ID,
		TgID:        entity.TgID,
		Username:    entity.Username,
		DisplayName: entity.DisplayName,
		CreatedAt:   entity.CreatedAt,
	}
}
