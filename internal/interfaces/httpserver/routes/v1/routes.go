package v1

import (
	"github.com/gin-gonic/gin"

	"stylist-server/internal/infrastructure/auth"
	"stylist-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration.
type Routes struct {
	handlers *handlers.Provider
	auth     *auth.Validator
}

func NewRoutes(provider *handlers.Provider, authValidator *auth.Validator) *Routes {
	return &Routes{handlers: provider, auth: authValidator}
}

// Register attaches all application routes. Candidate discovery is open;
// everything touching a wardrobe requires a bearer token.
func (r *Routes) Register(router gin.IRouter) {
	router.POST("/auth/register", r.handlers.Auth.Register)
	router.POST("/import/fetch", r.handlers.Import.FetchCandidates)

	authed := router.Group("/", r.auth.Middleware())
	authed.POST("/import/add", r.handlers.Import.Add)

	authed.POST("/wardrobe/upload", r.handlers.Wardrobe.Upload)
	authed.GET("/wardrobe", r.handlers.Wardrobe.List)
	authed.DELETE("/wardrobe/:id", r.handlers.Wardrobe.Delete)

	authed.POST("/looks", r.handlers.Look.Create)
	authed.GET("/looks", r.handlers.Look.List)
	authed.POST("/analyses", r.handlers.Look.CreateAnalysis)
	authed.GET("/analyses", r.handlers.Look.ListAnalyses)

	authed.GET("/profile", r.handlers.Profile.Get)
}
