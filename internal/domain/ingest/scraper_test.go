package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stylist-server/internal/utils/platformerrors"
)

func testBase(t *testing.T) *url.URL {
	t.Helper()
	base, err := url.Parse("https://shop.example.com/item/42")
	if err != nil {
		t.Fatal(err)
	}
	return base
}

func TestParsePagePriority(t *testing.T) {
	page := `<html><head>
		<meta property="og:title" content="Синяя футболка | Shop">
		<meta property="og:image" content="https://cdn.example.com/og.jpg">
		<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
	</head><body>
		<img src="/images/product-main.jpg">
		<img src="/images/logo.png">
	</body></html>`

	info := parsePage([]byte(page), testBase(t))

	if len(info.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %+v", len(info.Candidates), info.Candidates)
	}
	if info.Candidates[0].URL != "https://cdn.example.com/og.jpg" || info.Candidates[0].Source != "og" {
		t.Errorf("og:image must come first, got %+v", info.Candidates[0])
	}
	if info.Candidates[1].Source != "twitter" {
		t.Errorf("twitter:image must come second, got %+v", info.Candidates[1])
	}
	if info.Candidates[2].URL != "https://shop.example.com/images/product-main.jpg" {
		t.Errorf("img src must be absolutized, got %q", info.Candidates[2].URL)
	}
	if info.Title != "Синяя футболка | Shop" {
		t.Errorf("unexpected title %q", info.Title)
	}
}

func TestParsePageExclusions(t *testing.T) {
	page := `<html><body>
		<img src="/logo.jpg">
		<img src="/icon-small.png">
		<img src="/sprite-sheet.jpg">
		<img src="/tracking-pixel.png">
		<img src="/banner-1x1.png">
		<img src="/product.gif">
		<img data-src="/lazy-product.webp">
	</body></html>`

	info := parsePage([]byte(page), testBase(t))

	if len(info.Candidates) != 1 {
		t.Fatalf("expected only the lazy product image, got %+v", info.Candidates)
	}
	if info.Candidates[0].URL != "https://shop.example.com/lazy-product.webp" {
		t.Errorf("unexpected candidate %q", info.Candidates[0].URL)
	}
}

func TestParsePageJSONLD(t *testing.T) {
	page := `<html><head>
		<script type="application/ld+json">
		{"@type":"Product","name":"Куртка","image":["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]}
		</script>
	</head><body></body></html>`

	info := parsePage([]byte(page), testBase(t))

	if len(info.Candidates) != 2 {
		t.Fatalf("expected 2 jsonld candidates, got %+v", info.Candidates)
	}
	if info.Candidates[0].Source != "jsonld" {
		t.Errorf("unexpected source %q", info.Candidates[0].Source)
	}
}

func TestParsePageCandidateCapAndDedupe(t *testing.T) {
	page := `<html><head>
		<meta property="og:image" content="https://cdn.example.com/1.jpg">
		<meta property="og:image" content="https://cdn.example.com/1.jpg">
	</head><body>
		<img src="/p1.jpg"><img src="/p2.jpg"><img src="/p3.jpg">
		<img src="/p4.jpg"><img src="/p5.jpg"><img src="/p6.jpg"><img src="/p7.jpg">
	</body></html>`

	info := parsePage([]byte(page), testBase(t))

	if len(info.Candidates) != maxCandidates {
		t.Fatalf("expected %d candidates, got %d", maxCandidates, len(info.Candidates))
	}
	seen := map[string]bool{}
	for _, c := range info.Candidates {
		if seen[c.URL] {
			t.Errorf("duplicate candidate %q", c.URL)
		}
		seen[c.URL] = true
	}
}

func TestParsePageTitleFallback(t *testing.T) {
	page := `<html><head><title>  Рубашка   в клетку </title></head><body><img src="/a.jpg"></body></html>`
	info := parsePage([]byte(page), testBase(t))
	if info.Title != "Рубашка в клетку" {
		t.Errorf("title must be whitespace-normalized, got %q", info.Title)
	}

	info = parsePage([]byte(`<html><body><img src="/a.jpg"></body></html>`), testBase(t))
	if info.Title != defaultTitle {
		t.Errorf("missing title must fall back to %q, got %q", defaultTitle, info.Title)
	}
}

func TestFetchPageNoImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>ничего тут нет</p></body></html>`))
	}))
	defer server.Close()

	scraper := NewScraper(time.Second, 5*1024*1024, zerolog.Nop())
	_, err := scraper.FetchPage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected NoImageFound error")
	}
	if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not-found error type, got %v", err)
	}
}

func TestFetchPageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	scraper := NewScraper(time.Second, 5*1024*1024, zerolog.Nop())
	_, err := scraper.FetchPage(context.Background(), server.URL)
	if !platformerrors.IsType(err, platformerrors.ErrorTypeExternal) {
		t.Errorf("expected external error type, got %v", err)
	}
}
