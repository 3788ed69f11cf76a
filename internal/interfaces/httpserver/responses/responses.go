package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stylist-server/internal/utils/platformerrors"
)

// ErrorResponse is the client-facing error body. Detail is a short
// human-readable reason, in Russian for validation outcomes.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError maps a pipeline or repository error onto an HTTP status
// and writes the error body.
func HandleError(c *gin.Context, log zerolog.Logger, err error, fallback string) {
	perr := platformerrors.As(c.Request.Context(), platformerrors.LayerHandler, err, fallback)
	if perr == nil {
		return
	}
	platformerrors.Log(log, perr)

	detail := perr.Detail
	if detail == "" {
		detail = fallback
	}
	c.AbortWithStatusJSON(platformerrors.HTTPStatus(perr.Type), ErrorResponse{
		Detail:    detail,
		RequestID: perr.RequestID,
	})
}

// BadRequest writes a 400 with the given reason.
func BadRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Detail: detail})
}
