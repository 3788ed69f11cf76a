package ingest

import (
	"context"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"stylist-server/internal/utils/platformerrors"
)

const (
	ReasonDownloadFailed = "Не удалось скачать изображение"
	ReasonBadImageFormat = "Неподдерживаемый формат изображения"
)

var allowedImageMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/avif": "avif",
}

// Downloader fetches a single remote image with a size cap and one retry
// on transport failure.
type Downloader struct {
	client   *resty.Client
	maxBytes int64
	log      zerolog.Logger
}

func NewDownloader(timeout time.Duration, maxBytes int64, log zerolog.Logger) *Downloader {
	client := resty.New().
		SetHeader("User-Agent", browserUserAgent).
		SetTimeout(timeout).
		SetDoNotParseResponse(true).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry transport errors only. HTTP error statuses are
			// answered by the origin and will not improve on replay.
			return err != nil
		})

	return &Downloader{
		client:   client,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "downloader").Logger(),
	}
}

// Download fetches the image bytes and sniffs the content type from the
// payload itself, ignoring the Content-Type header.
func (d *Downloader) Download(ctx context.Context, imageURL string) (data []byte, mime string, err error) {
	resp, err := d.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, ReasonDownloadFailed, err)
	}
	defer resp.RawBody().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		d.log.Warn().Str("url", imageURL).Int("status", resp.StatusCode()).Msg("image fetch rejected")
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, ReasonDownloadFailed, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.RawBody(), d.maxBytes+1))
	if err != nil {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, ReasonDownloadFailed, err)
	}
	if int64(len(body)) > d.maxBytes {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonImageTooLarge, nil)
	}

	detected := mimetype.Detect(body)
	if _, ok := allowedImageMIMEs[detected.String()]; !ok {
		return nil, "", platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonBadImageFormat, nil)
	}
	return body, detected.String(), nil
}
