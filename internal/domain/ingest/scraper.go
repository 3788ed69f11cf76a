package ingest

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"stylist-server/internal/infrastructure/metrics"
	"stylist-server/internal/utils/platformerrors"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxCandidates    = 6
	defaultTitle     = "Покупка"

	ReasonNoImageFound  = "Картинки не найдены на этой странице"
	ReasonPageUnreached = "Не удалось открыть страницу"
	ReasonPageTooLarge  = "Страница слишком большая"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".avif"}

var excludedURLParts = []string{"logo", "icon", "sprite", "pixel", "1x1"}

var lazySrcAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

// Scraper resolves a product page URL into image candidates and a title.
type Scraper struct {
	client   *resty.Client
	maxBytes int64
	log      zerolog.Logger
}

// NewScraper wires the page-fetch HTTP client. Pages are fetched with a
// browser-like user agent because shops commonly reject bot agents.
func NewScraper(timeout time.Duration, maxBytes int64, log zerolog.Logger) *Scraper {
	client := resty.New().
		SetHeader("User-Agent", browserUserAgent).
		SetTimeout(timeout).
		SetDoNotParseResponse(true).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Scraper{
		client:   client,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "scraper").Logger(),
	}
}

// FetchPage downloads and parses the page, returning up to 6 deduplicated
// image candidates in priority order plus a whitespace-normalized title.
func (s *Scraper) FetchPage(ctx context.Context, pageURL string) (*PageInfo, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonPageUnreached, err)
	}

	resp, err := s.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, ReasonPageUnreached, err)
	}
	defer resp.RawBody().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		s.log.Warn().Str("url", pageURL).Int("status", resp.StatusCode()).Msg("page fetch rejected")
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, ReasonPageUnreached, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.RawBody(), s.maxBytes+1))
	if err != nil {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, ReasonPageUnreached, err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, ReasonPageTooLarge, nil)
	}

	info := parsePage(body, base)
	metrics.ScrapeCandidates.Observe(float64(len(info.Candidates)))
	if len(info.Candidates) == 0 {
		return nil, platformerrors.New(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, ReasonNoImageFound, nil)
	}
	return info, nil
}

// parsePage walks the document once, collecting candidates into priority
// buckets: og:image, twitter:image, JSON-LD product images, then bare img
// tags that look like product shots.
func parsePage(body []byte, base *url.URL) *PageInfo {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return &PageInfo{Title: defaultTitle}
	}

	var ogImages, twitterImages, jsonldImages, imgTags []string
	var ogTitle, docTitle string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				content := attr(n, "content")
				switch key {
				case "og:image":
					ogImages = append(ogImages, content)
				case "twitter:image":
					twitterImages = append(twitterImages, content)
				case "og:title":
					if ogTitle == "" {
						ogTitle = content
					}
				}
			case "title":
				if docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					docTitle = n.FirstChild.Data
				}
			case "script":
				if strings.EqualFold(attr(n, "type"), "application/ld+json") && n.FirstChild != nil {
					jsonldImages = append(jsonldImages, jsonldImageURLs(n.FirstChild.Data)...)
				}
			case "img":
				for _, name := range lazySrcAttrs {
					if src := attr(n, name); src != "" && looksLikeProductImage(src) {
						imgTags = append(imgTags, src)
						break
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	info := &PageInfo{Title: pickTitle(ogTitle, docTitle)}
	seen := make(map[string]bool)
	appendAll := func(urls []string, source string) {
		for _, raw := range urls {
			if len(info.Candidates) >= maxCandidates {
				return
			}
			resolved := absolutize(raw, base)
			if resolved == "" || seen[resolved] {
				continue
			}
			seen[resolved] = true
			info.Candidates = append(info.Candidates, Candidate{URL: resolved, Source: source})
		}
	}
	appendAll(ogImages, "og")
	appendAll(twitterImages, "twitter")
	appendAll(jsonldImages, "jsonld")
	appendAll(imgTags, "img")
	return info
}

func pickTitle(ogTitle, docTitle string) string {
	if t := CleanName(ogTitle); t != "" {
		return t
	}
	if t := CleanName(docTitle); t != "" {
		return t
	}
	return defaultTitle
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// looksLikeProductImage keeps only URLs with a known image extension and
// none of the decoration markers (logos, icons, tracking pixels).
func looksLikeProductImage(raw string) bool {
	lowered := strings.ToLower(raw)
	path := lowered
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	hasExt := false
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			hasExt = true
			break
		}
	}
	if !hasExt {
		return false
	}
	for _, part := range excludedURLParts {
		if strings.Contains(lowered, part) {
			return false
		}
	}
	return true
}

func absolutize(raw string, base *url.URL) string {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// jsonldImageURLs pulls "image" values out of a JSON-LD blob. Shops embed
// them as a string, a list, or an ImageObject, so all three are handled.
func jsonldImageURLs(raw string) []string {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	var out []string
	var visit func(v any)
	visit = func(v any) {
		switch value := v.(type) {
		case map[string]any:
			if img, ok := value["image"]; ok {
				collectImageValue(img, &out)
			}
			if graph, ok := value["@graph"]; ok {
				visit(graph)
			}
		case []any:
			for _, item := range value {
				visit(item)
			}
		}
	}
	visit(parsed)
	return out
}

func collectImageValue(v any, out *[]string) {
	switch value := v.(type) {
	case string:
		*out = append(*out, value)
	case []any:
		for _, item := range value {
			collectImageValue(item, out)
		}
	case map[string]any:
		if u, ok := value["url"].(string); ok {
			*out = append(*out, u)
		}
	}
}
