package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"stylist-server/internal/infrastructure/metrics"
)

// Client talks to the external vision service. The three endpoints are
// independent; each call carries its own retry and the caller decides
// which failures matter.
type Client struct {
	baseURL    string
	httpClient *resty.Client
	log        zerolog.Logger
}

type imageRequest struct {
	ImageURL string `json:"image_url"`
}

type checkResponse struct {
	IsClothing bool    `json:"is_clothing"`
	BestLabel  string  `json:"best_label"`
	Confidence float64 `json:"confidence"`
}

type classifyResponse struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	Style string `json:"style"`
}

type nameResponse struct {
	Name string `json:"name"`
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log.With().Str("component", "classifier").Logger(),
	}
}

// CheckClothing asks whether the image shows a clothing item.
func (c *Client) CheckClothing(ctx context.Context, imageRef string) (bool, string, float64, error) {
	var result checkResponse
	if err := c.post(ctx, "/check-clothing", imageRef, &result); err != nil {
		return false, "", 0, err
	}
	return result.IsClothing, result.BestLabel, result.Confidence, nil
}

// Classify returns the item's type, color and style.
func (c *Client) Classify(ctx context.Context, imageRef string) (string, string, string, error) {
	var result classifyResponse
	if err := c.post(ctx, "/classify-clothing", imageRef, &result); err != nil {
		return "", "", "", err
	}
	return result.Type, result.Color, result.Style, nil
}

// GenerateName asks for a short human-readable item name.
func (c *Client) GenerateName(ctx context.Context, imageRef string) (string, error) {
	var result nameResponse
	if err := c.post(ctx, "/generate-name", imageRef, &result); err != nil {
		return "", err
	}
	return result.Name, nil
}

func (c *Client) post(ctx context.Context, path, imageRef string, result any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(imageRequest{ImageURL: imageRef}).
		SetResult(result).
		Post(path)
	if err != nil {
		metrics.RecordClassifierCall(path, "error")
		return fmt.Errorf("classifier request %s: %w", path, err)
	}
	if resp.IsError() {
		metrics.RecordClassifierCall(path, "error")
		c.log.Warn().Str("path", path).Int("status", resp.StatusCode()).Msg("classifier call rejected")
		return fmt.Errorf("classifier error (%d) on %s", resp.StatusCode(), path)
	}
	metrics.RecordClassifierCall(path, "ok")
	return nil
}
