package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"stylist-server/internal/infrastructure/metrics"
	"stylist-server/internal/utils/platformerrors"
)

const (
	ReasonNotClothing    = "На фото не обнаружена одежда"
	ReasonClassifierDown = "Сервис распознавания временно недоступен"
	ReasonVariantsFailed = "Не удалось обработать изображение"
	ReasonStorageFailed  = "Не удалось сохранить изображение"
	ReasonRecordFailed   = "Не удалось сохранить запись"
	ReasonNoSource       = "Не передано изображение"

	fallbackItemName = "Предмет одежды"
	defaultItemType  = "other"
)

// Storage persists a finished image and can roll it back.
type Storage interface {
	Put(ctx context.Context, data []byte, ext, contentType string) (*StoredImage, error)
	// Delete is best-effort; it reports whether the object was removed.
	Delete(ctx context.Context, url string) bool
}

// Classifier is the external vision service. Calls are independent;
// the coordinator decides which failures are fatal.
type Classifier interface {
	CheckClothing(ctx context.Context, imageRef string) (isClothing bool, bestLabel string, confidence float64, err error)
	Classify(ctx context.Context, imageRef string) (itemType, color, style string, err error)
	GenerateName(ctx context.Context, imageRef string) (string, error)
}

// Recorder writes wardrobe rows. FindByUserAndHash returns (nil, nil)
// when no row matches.
type Recorder interface {
	FindByUserAndHash(ctx context.Context, userID int64, hash string) (*Record, error)
	Create(ctx context.Context, rec *Record) error
}

// Service coordinates the full ingestion pipeline: resolve, download,
// validate, classify, generate variants, store, record.
type Service struct {
	scraper     *Scraper
	downloader  *Downloader
	storage     Storage
	classifier  Classifier
	recorder    Recorder
	variantSize int
	maxBytes    int64
	deadline    time.Duration
	log         zerolog.Logger
}

func NewService(
	scraper *Scraper,
	downloader *Downloader,
	storage Storage,
	classifier Classifier,
	recorder Recorder,
	variantSize int,
	maxBytes int64,
	deadline time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		scraper:     scraper,
		downloader:  downloader,
		storage:     storage,
		classifier:  classifier,
		recorder:    recorder,
		variantSize: variantSize,
		maxBytes:    maxBytes,
		deadline:    deadline,
		log:         log.With().Str("component", "ingest").Logger(),
	}
}

// FetchCandidates scrapes a product page and returns the image candidates
// a client can offer for selection.
func (s *Service) FetchCandidates(ctx context.Context, pageURL string) (*PageInfo, error) {
	start := time.Now()
	info, err := s.scraper.FetchPage(ctx, pageURL)
	metrics.RecordStage("resolve", time.Since(start).Seconds())
	return info, err
}

// Ingest runs one image through the whole pipeline and returns the
// created (or previously existing) wardrobe item.
func (s *Service) Ingest(ctx context.Context, req Request) (result *Result, err error) {
	deadline := req.Deadline
	if deadline <= 0 {
		deadline = s.deadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		} else if result.Deduped {
			status = "deduped"
		}
		metrics.RecordIngest(string(req.Source.Kind), status)
	}()

	name := CleanName(req.Name)
	if name != "" {
		if ok, reason := ValidateName(name); !ok {
			return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, reason, nil)
		}
	}

	artifact, pageTitle, err := s.resolve(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	existing, err := s.recorder.FindByUserAndHash(ctx, req.UserID, artifact.Hash)
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, ReasonRecordFailed, err)
	}
	if existing != nil {
		s.log.Info().Int64("user_id", req.UserID).Int64("item_id", existing.ID).
			Str("hash", artifact.Hash).Msg("duplicate image, returning existing item")
		return &Result{
			ItemID:   existing.ID,
			PhotoURL: existing.PhotoURL,
			ItemName: existing.ItemName,
			Deduped:  true,
		}, nil
	}

	imageRef := req.Source.ImageURL
	if req.Source.Kind == SourceUpload {
		imageRef = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(artifact.Bytes)
	}

	cls, err := s.checkClothing(ctx, req.Source.Kind, imageRef)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	variants, err := GenerateVariants(artifact.Image, s.variantSize)
	metrics.RecordStage("variants", time.Since(start).Seconds())
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, ReasonVariantsFailed, err)
	}

	s.classifyAndName(ctx, imageRef, name == "", cls)

	switch {
	case name != "":
	case cls.GeneratedName != "":
		name = cls.GeneratedName
	case pageTitle != "":
		name = pageTitle
	default:
		name = fallbackItemName
	}

	payload := variants[VariantEnhanced]
	if len(payload) == 0 {
		payload = variants[VariantOriginal]
	}

	start = time.Now()
	stored, err := s.storage.Put(ctx, payload, "jpg", "image/jpeg")
	metrics.RecordStage("store", time.Since(start).Seconds())
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal, ReasonStorageFailed, err)
	}

	itemType := strings.TrimSpace(req.ItemType)
	if itemType == "" {
		itemType = cls.Type
	}
	if itemType == "" {
		itemType = defaultItemType
	}

	rec := &Record{
		UserID:      req.UserID,
		ItemName:    name,
		ItemType:    itemType,
		PhotoURL:    stored.URL,
		PhotoHash:   artifact.Hash,
		StorageKey:  stored.Key,
		Colors:      colorsJSON(cls.Color),
		Description: describe(cls),
	}
	if err := s.recorder.Create(ctx, rec); err != nil {
		// The image is already on disk or in the bucket; take it back
		// out so a failed commit leaves nothing behind.
		s.storage.Delete(context.WithoutCancel(ctx), stored.URL)
		return nil, platformerrors.New(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, ReasonRecordFailed, err)
	}

	s.log.Info().Int64("user_id", req.UserID).Int64("item_id", rec.ID).
		Str("source", string(req.Source.Kind)).Str("item_type", rec.ItemType).
		Msg("wardrobe item ingested")

	return &Result{ItemID: rec.ID, PhotoURL: stored.URL, ItemName: name}, nil
}

// resolve turns the request source into a decoded, hashed artifact.
func (s *Service) resolve(ctx context.Context, src Source) (*Artifact, string, error) {
	var (
		data      []byte
		mime      string
		pageTitle string
		err       error
	)

	switch src.Kind {
	case SourceUpload:
		data = src.Data
	case SourceURL:
		imageURL := src.ImageURL
		if imageURL == "" && src.PageURL != "" {
			info, ferr := s.FetchCandidates(ctx, src.PageURL)
			if ferr != nil {
				return nil, "", ferr
			}
			imageURL = info.Candidates[0].URL
			pageTitle = info.Title
		}
		if imageURL == "" {
			return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation, ReasonNoSource, nil)
		}
		start := time.Now()
		data, mime, err = s.downloader.Download(ctx, imageURL)
		metrics.RecordStage("download", time.Since(start).Seconds())
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonNoSource, nil)
	}

	if ok, reason := ValidateImage(data, s.maxBytes); !ok {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, reason, nil)
	}

	img, err := DecodeImage(data)
	if err != nil {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonImageUndecoded, err)
	}

	canonical, err := Canonicalize(img)
	if err != nil {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, ReasonVariantsFailed, err)
	}
	sum := sha256.Sum256(canonical)

	bounds := img.Bounds()
	return &Artifact{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Origin: src.Kind,
		Hash:   hex.EncodeToString(sum[:]),
		Bytes:  canonical,
		Mime:   mime,
	}, pageTitle, nil
}

// checkClothing gates the pipeline on the vision service. URL ingest is
// refused when the service is down; direct uploads keep going because the
// user is looking at their own photo.
func (s *Service) checkClothing(ctx context.Context, kind SourceKind, imageRef string) (*Classification, error) {
	start := time.Now()
	isClothing, label, confidence, err := s.classifier.CheckClothing(ctx, imageRef)
	metrics.RecordStage("check", time.Since(start).Seconds())
	if err != nil {
		if kind == SourceURL {
			return nil, platformerrors.New(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeUnavailable, ReasonClassifierDown, err)
		}
		s.log.Warn().Err(err).Msg("check-clothing unavailable, accepting upload unchecked")
		return &Classification{Checked: false, IsClothing: true}, nil
	}
	if !isClothing {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonNotClothing, nil)
	}
	return &Classification{
		Checked:    true,
		IsClothing: true,
		BestLabel:  label,
		Confidence: confidence,
	}, nil
}

// classifyAndName runs the two metadata calls concurrently. Both are
// soft: a failure degrades the record, never the ingest.
func (s *Service) classifyAndName(ctx context.Context, imageRef string, wantName bool, cls *Classification) {
	var wg sync.WaitGroup
	start := time.Now()

	wg.Add(1)
	go func() {
		defer wg.Done()
		itemType, color, style, err := s.classifier.Classify(ctx, imageRef)
		if err != nil {
			s.log.Warn().Err(err).Msg("classify-clothing failed, recording without attributes")
			return
		}
		cls.Type, cls.Color, cls.Style = itemType, color, style
	}()

	if wantName {
		wg.Add(1)
		go func() {
			defer wg.Done()
			generated, err := s.classifier.GenerateName(ctx, imageRef)
			if err != nil {
				s.log.Warn().Err(err).Msg("generate-name failed, falling back to page title")
				return
			}
			cls.GeneratedName = CleanName(generated)
		}()
	}

	wg.Wait()
	metrics.RecordStage("classify", time.Since(start).Seconds())
}

func colorsJSON(color string) string {
	if color == "" {
		return "[]"
	}
	encoded, err := json.Marshal([]string{color})
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func describe(cls *Classification) string {
	var parts []string
	if cls.Type != "" {
		parts = append(parts, fmt.Sprintf("тип: %s", cls.Type))
	}
	if cls.Style != "" {
		parts = append(parts, fmt.Sprintf("стиль: %s", cls.Style))
	}
	if cls.BestLabel != "" {
		parts = append(parts, fmt.Sprintf("распознано: %s (%.0f%%)", cls.BestLabel, cls.Confidence*100))
	}
	return strings.Join(parts, ", ")
}
