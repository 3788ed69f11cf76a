package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/interfaces/httpserver/responses"
)

// ProfileHandler returns the caller's own account.
type ProfileHandler struct {
	service *wardrobe.Service
	log     zerolog.Logger
}

func NewProfileHandler(service *wardrobe.Service, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		log:     log.With().Str("component", "profile-handler").Logger(),
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, _ := auth.UserID(c)

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.ProfileResponse{Success: true, User: user})
}
