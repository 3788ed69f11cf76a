package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(testSecret, 12345, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	v := NewValidator(testSecret, zerolog.Nop())
	userID, err := v.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if userID != 12345 {
		t.Errorf("expected user id 12345, got %d", userID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("other-secret", 1, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	v := NewValidator(testSecret, zerolog.Nop())
	if _, err := v.Parse(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := IssueToken(testSecret, 1, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	v := NewValidator(testSecret, zerolog.Nop())
	if _, err := v.Parse(token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func newAuthedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	v := NewValidator(testSecret, zerolog.Nop())

	router := gin.New()
	router.GET("/protected", v.Middleware(), func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			t.Error("user id must be present after middleware")
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestMiddlewareAllowsValidToken(t *testing.T) {
	router := newAuthedRouter(t)
	token, _ := IssueToken(testSecret, 7, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	router := newAuthedRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}
