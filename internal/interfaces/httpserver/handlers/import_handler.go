package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stylist-server/internal/config"
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/interfaces/httpserver/requests"
	"stylist-server/internal/interfaces/httpserver/responses"
)

const reasonBadRequest = "Некорректный запрос"

// ImportHandler exposes the URL-based import flow: candidate discovery
// and ingestion of a selected image.
type ImportHandler struct {
	cfg     *config.Config
	service *ingest.Service
	log     zerolog.Logger
}

func NewImportHandler(cfg *config.Config, service *ingest.Service, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "import-handler").Logger(),
	}
}

// FetchCandidates scrapes a product page for image candidates.
func (h *ImportHandler) FetchCandidates(c *gin.Context) {
	var req requests.FetchCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, reasonBadRequest)
		return
	}

	info, err := h.service.FetchCandidates(c.Request.Context(), req.URL)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.CandidatesResponse{
		Count:      len(info.Candidates),
		Title:      info.Title,
		Candidates: info.Candidates,
	})
}

// Add ingests a selected image URL into the caller's wardrobe.
func (h *ImportHandler) Add(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{Detail: "Требуется авторизация"})
		return
	}

	var req requests.ImportAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, reasonBadRequest)
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), ingest.Request{
		UserID: userID,
		Source: ingest.Source{
			Kind:     ingest.SourceURL,
			ImageURL: req.ImageURL,
			PageURL:  req.PageURL,
		},
		Name:     req.Name,
		ItemType: req.ItemType,
	})
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.ImportResponse{
		Success:  true,
		ItemID:   result.ItemID,
		PhotoURL: result.PhotoURL,
		ItemName: result.ItemName,
		Deduped:  result.Deduped,
	})
}
