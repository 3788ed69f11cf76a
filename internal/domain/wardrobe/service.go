package wardrobe

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"stylist-server/internal/utils/platformerrors"
)

const (
	ReasonItemNotFound = "Предмет не найден"
	ReasonLookNotFound = "Образ не найден"
	ReasonUserNotFound = "Пользователь не найден"
	ReasonEmptyTitle   = "Название образа не может быть пустым"
	ReasonNoItems      = "Образ должен содержать хотя бы один предмет"
)

// ItemRepository reads and removes wardrobe rows.
type ItemRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
	// GetByID returns (nil, nil) when the item does not exist or
	// belongs to another user.
	GetByID(ctx context.Context, userID, itemID int64) (*Item, error)
	Delete(ctx context.Context, userID, itemID int64) (photoURL string, err error)
}

// UserRepository manages account rows.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByTgID(ctx context.Context, tgID int64) (*User, error)
	Create(ctx context.Context, user *User) error
	// MinNegativeTgID returns 0 when no synthetic accounts exist yet.
	MinNegativeTgID(ctx context.Context) (int64, error)
}

// LookRepository stores looks and analyses.
type LookRepository interface {
	CreateLook(ctx context.Context, look *Look) error
	ListLooks(ctx context.Context, userID int64) ([]Look, error)
	GetLook(ctx context.Context, userID int64, publicID string) (*Look, error)
	CreateAnalysis(ctx context.Context, analysis *Analysis) error
	ListAnalyses(ctx context.Context, userID int64) ([]Analysis, error)
}

// ImageRemover deletes a stored image by URL, best-effort.
type ImageRemover interface {
	Delete(ctx context.Context, url string) bool
}

// Service carries the non-pipeline wardrobe operations: listing,
// deletion, looks, analyses and profiles.
type Service struct {
	items  ItemRepository
	users  UserRepository
	looks  LookRepository
	images ImageRemover
	log    zerolog.Logger
}

func NewService(items ItemRepository, users UserRepository, looks LookRepository, images ImageRemover, log zerolog.Logger) *Service {
	return &Service{
		items:  items,
		users:  users,
		looks:  looks,
		images: images,
		log:    log.With().Str("component", "wardrobe").Logger(),
	}
}

func (s *Service) ListItems(ctx context.Context, userID int64) ([]Item, error) {
	return s.items.ListByUser(ctx, userID)
}

// DeleteItem removes the row and then the stored image. The image delete
// is best-effort; an orphaned file is preferable to a dangling row.
func (s *Service) DeleteItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, ReasonItemNotFound, nil)
	}

	photoURL, err := s.items.Delete(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if photoURL != "" && !s.images.Delete(ctx, photoURL) {
		s.log.Warn().Int64("item_id", itemID).Str("url", photoURL).Msg("stored image left behind after item delete")
	}
	return nil
}

func (s *Service) CreateLook(ctx context.Context, userID int64, title string, itemIDs []int64, notes string) (*Look, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonEmptyTitle, nil)
	}
	if len(itemIDs) == 0 {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonNoItems, nil)
	}

	// Only the caller's own items may enter a look.
	for _, id := range itemIDs {
		item, err := s.items.GetByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, ReasonItemNotFound, nil)
		}
	}

	look := &Look{
		PublicID: ulid.Make().String(),
		UserID:   userID,
		Title:    title,
		ItemIDs:  itemIDs,
		Notes:    strings.TrimSpace(notes),
	}
	if err := s.looks.CreateLook(ctx, look); err != nil {
		return nil, err
	}
	return look, nil
}

func (s *Service) ListLooks(ctx context.Context, userID int64) ([]Look, error) {
	return s.looks.ListLooks(ctx, userID)
}

func (s *Service) CreateAnalysis(ctx context.Context, userID int64, lookPublicID, verdict string, score float64, details string) (*Analysis, error) {
	if lookPublicID != "" {
		look, err := s.looks.GetLook(ctx, userID, lookPublicID)
		if err != nil {
			return nil, err
		}
		if look == nil {
			return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, ReasonLookNotFound, nil)
		}
	}

	analysis := &Analysis{
		PublicID: ulid.Make().String(),
		UserID:   userID,
		LookID:   lookPublicID,
		Verdict:  strings.TrimSpace(verdict),
		Score:    score,
		Details:  details,
	}
	if err := s.looks.CreateAnalysis(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *Service) ListAnalyses(ctx context.Context, userID int64) ([]Analysis, error) {
	return s.looks.ListAnalyses(ctx, userID)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, ReasonUserNotFound, nil)
	}
	return user, nil
}

// EnsureAPIUser returns an account for API-only clients, creating one on
// first use. Synthetic accounts descend through the negative tg_id
// namespace: the next id is one below the current minimum.
func (s *Service) EnsureAPIUser(ctx context.Context, username, displayName string) (*User, error) {
	minTgID, err := s.users.MinNegativeTgID(ctx)
	if err != nil {
		return nil, err
	}

	user := &User{
		TgID:        minTgID - 1,
		Username:    strings.TrimSpace(username),
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Int64("tg_id", user.TgID).Msg("api user created")
	return user, nil
}

// EnsureTelegramUser finds or creates the account for a Telegram id.
func (s *Service) EnsureTelegramUser(ctx context.Context, tgID int64, username, displayName string) (*User, error) {
	user, err := s.users.GetByTgID(ctx, tgID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user = &User{TgID: tgID, Username: username, DisplayName: displayName}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
