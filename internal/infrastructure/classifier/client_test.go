package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCheckClothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/check-clothing" {
			t.Errorf("expected path /check-clothing, got %s", r.URL.Path)
		}
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.ImageURL != "https://cdn.example.com/shirt.jpg" {
			t.Errorf("unexpected image_url %q", req.ImageURL)
		}
		json.NewEncoder(w).Encode(checkResponse{IsClothing: true, BestLabel: "t-shirt", Confidence: 0.87})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	isClothing, label, confidence, err := client.CheckClothing(context.Background(), "https://cdn.example.com/shirt.jpg")
	if err != nil {
		t.Fatalf("CheckClothing failed: %v", err)
	}
	if !isClothing || label != "t-shirt" || confidence != 0.87 {
		t.Errorf("unexpected result: %v %q %v", isClothing, label, confidence)
	}
}

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify-clothing" {
			t.Errorf("expected path /classify-clothing, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(classifyResponse{Type: "jacket", Color: "чёрный", Style: "casual"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	itemType, color, style, err := client.Classify(context.Background(), "https://cdn.example.com/jacket.jpg")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if itemType != "jacket" || color != "чёрный" || style != "casual" {
		t.Errorf("unexpected result: %q %q %q", itemType, color, style)
	}
}

func TestGenerateName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-name" {
			t.Errorf("expected path /generate-name, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(nameResponse{Name: "Чёрная куртка"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	name, err := client.GenerateName(context.Background(), "https://cdn.example.com/jacket.jpg")
	if err != nil {
		t.Fatalf("GenerateName failed: %v", err)
	}
	if name != "Чёрная куртка" {
		t.Errorf("unexpected name %q", name)
	}
}

func TestServiceErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())
	_, _, _, err := client.CheckClothing(context.Background(), "ref")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if hits.Load() != 1 {
		t.Errorf("service errors must not be retried, got %d requests", hits.Load())
	}
}

func TestTransportErrorSurfaces(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())
	_, _, _, err := client.CheckClothing(context.Background(), "ref")
	if err == nil {
		t.Fatal("expected transport error")
	}
}
