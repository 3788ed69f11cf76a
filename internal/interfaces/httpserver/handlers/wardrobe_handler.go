package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stylist-server/internal/config"
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/domain/wardrobe"
	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/interfaces/httpserver/responses"
)

// WardrobeHandler exposes direct uploads plus listing and deletion.
type WardrobeHandler struct {
	cfg      *config.Config
	ingests  *ingest.Service
	wardrobe *wardrobe.Service
	log      zerolog.Logger
}

func NewWardrobeHandler(cfg *config.Config, ingests *ingest.Service, wardrobeService *wardrobe.Service, log zerolog.Logger) *WardrobeHandler {
	return &WardrobeHandler{
		cfg:      cfg,
		ingests:  ingests,
		wardrobe: wardrobeService,
		log:      log.With().Str("component", "wardrobe-handler").Logger(),
	}
}

// Upload ingests a multipart photo into the caller's wardrobe.
func (h *WardrobeHandler) Upload(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{Detail: "Требуется авторизация"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.BadRequest(c, ingest.ReasonImageEmpty)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.BadRequest(c, ingest.ReasonImageEmpty)
		return
	}
	defer file.Close()

	// Read one byte past the cap so the validator can reject oversize
	// uploads without buffering the whole body.
	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxImageBytes+1))
	if err != nil {
		responses.BadRequest(c, ingest.ReasonImageEmpty)
		return
	}

	result, err := h.ingests.Ingest(c.Request.Context(), ingest.Request{
		UserID: userID,
		Source: ingest.Source{
			Kind:     ingest.SourceUpload,
			Filename: fileHeader.Filename,
			Data:     data,
		},
		Name:     c.PostForm("name"),
		ItemType: c.PostForm("item_type"),
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

// List returns the caller's wardrobe, newest first.
func (h *WardrobeHandler) List(c *gin.Context) {
	userID, _ := auth.UserID(c)

	items, err := h.wardrobe.ListItems(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.ItemsResponse{
		Success: true,
		Count:   len(items),
		Items:   items,
	})
}

// Delete removes one of the caller's items and its stored image.
func (h *WardrobeHandler) Delete(c *gin.Context) {
	userID, _ := auth.UserID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, reasonBadRequest)
		return
	}

	if err := h.wardrobe.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		responses.HandleError(c, h.log, err, reasonBadRequest)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}
