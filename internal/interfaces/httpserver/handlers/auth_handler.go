package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/interfaces/httpserver/requests"
	"stylist-server/internal/interfaces/httpserver/responses"
)

// AuthHandler provisions API accounts and issues bearer tokens. Telegram
// accounts are created by the bot out of band; this endpoint covers direct
// API clients.
type AuthHandler struct {
	service  *wardrobe.Service
	secret   string
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthHandler(service *wardrobe.Service, secret string, tokenTTL time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log.With().Str("component", "auth-handler").Logger(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req requests.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, reasonBadRequest)
		return
	}

	user, err := h.service.EnsureAPIUser(c.Request.Context(), req.Username, req.DisplayName)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	token, err := auth.IssueToken(h.secret, user.ID, h.tokenTTL)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.RegisterResponse{Success: true, Token: token, User: user})
}
