package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const userIDContextKey = "user_id"

const (
	reasonMissingToken = "Требуется авторизация"
	reasonInvalidToken = "Недействительный токен"
)

// Validator checks HS256 bearer tokens carrying a user_id claim.
type Validator struct {
	secret []byte
	log    zerolog.Logger
}

func NewValidator(secret string, log zerolog.Logger) *Validator {
	return &Validator{
		secret: []byte(secret),
		log:    log.With().Str("component", "auth").Logger(),
	}
}

// Parse validates the token and extracts the user id.
func (v *Validator) Parse(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	raw, ok := claims[userIDContextKey]
	if !ok {
		return 0, fmt.Errorf("token has no user_id claim")
	}
	// JSON numbers decode as float64.
	id, ok := raw.(float64)
	if !ok || id != float64(int64(id)) {
		return 0, fmt.Errorf("user_id claim is not an integer")
	}
	return int64(id), nil
}

// Middleware rejects requests without a valid bearer token and stores the
// user id in the gin context for handlers.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, reasonMissingToken)
			return
		}

		userID, err := v.Parse(tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("token rejected")
			abortUnauthorized(c, reasonInvalidToken)
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user id set by Middleware.
func UserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int64)
	return id, ok
}

// IssueToken mints an HS256 token for a user. Used by tooling and tests.
func IssueToken(secret string, userID int64, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		userIDContextKey: userID,
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
