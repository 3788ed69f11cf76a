package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"stylist-server/internal/utils/platformerrors"
)

func TestDownloadSniffsContentType(t *testing.T) {
	payload := encodePNG(t, 100, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Deliberately wrong header: the sniffer must win.
		w.Header().Set("Content-Type", "text/html")
		w.Write(payload)
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 5*1024*1024, zerolog.Nop())
	data, mime, err := d.Download(context.Background(), server.URL+"/image.png")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("expected sniffed image/png, got %q", mime)
	}
	if len(data) != len(payload) {
		t.Errorf("expected %d bytes, got %d", len(payload), len(data))
	}
}

func TestDownloadRejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("<html>actually a page</html>"))
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 5*1024*1024, zerolog.Nop())
	_, _, err := d.Download(context.Background(), server.URL)
	if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error for non-image payload, got %v", err)
	}
}

func TestDownloadRejectsOversize(t *testing.T) {
	payload := encodePNG(t, 200, 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	d := NewDownloader(time.Second, int64(len(payload))-1, zerolog.Nop())
	_, _, err := d.Download(context.Background(), server.URL)
	if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error for oversize payload, got %v", err)
	}
}

func TestDownloadDoesNotRetryHTTPErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 5*1024*1024, zerolog.Nop())
	_, _, err := d.Download(context.Background(), server.URL)
	if !platformerrors.IsType(err, platformerrors.ErrorTypeExternal) {
		t.Errorf("expected external error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("HTTP status errors must not be retried, got %d requests", hits.Load())
	}
}
