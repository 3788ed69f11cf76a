package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/interfaces/httpserver/requests"
	"stylist-server/internal/interfaces/httpserver/responses"
)

// LookHandler exposes look composition and stored analyses.
type LookHandler struct {
	service *wardrobe.Service
	log     zerolog.Logger
}

func NewLookHandler(service *wardrobe.Service, log zerolog.Logger) *LookHandler {
	return &LookHandler{
		service: service,
		log:     log.With().Str("component", "look-handler").Logger(),
	}
}

func (h *LookHandler) Create(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req requests.CreateLookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, reasonBadRequest)
		return
	}

	look, err := h.service.CreateLook(c.Request.Context(), userID, req.Title, req.ItemIDs, req.Notes)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.LookResponse{Success: true, Look: look})
}

func (h *LookHandler) List(c *gin.Context) {
	userID, _ := auth.UserID(c)

	looks, err := h.service.ListLooks(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.LooksResponse{Success: true, Count: len(looks), Looks: looks})
}

func (h *LookHandler) CreateAnalysis(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req requests.CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, reasonBadRequest)
		return
	}

	analysis, err := h.service.CreateAnalysis(c.Request.Context(), userID, req.LookID, req.Verdict, req.Score, req.Details)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.AnalysisResponse{Success: true, Analysis: analysis})
}

func (h *LookHandler) ListAnalyses(c *gin.Context) {
	userID, _ := auth.UserID(c)

	analyses, err := h.service.ListAnalyses(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.AnalysesResponse{Success: true, Count: len(analyses), Analyses: analyses})
}
