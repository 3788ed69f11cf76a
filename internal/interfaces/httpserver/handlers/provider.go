package handlers

import (
	"github.com/rs/zerolog"

	"stylist-server/internal/config"
	"stylist-server/internal/domain/ingest"
	"stylist-server/internal/domain/wardrobe"
)

// Provider wires HTTP handlers.
type Provider struct {
	Auth     *AuthHandler
	Import   *ImportHandler
	Wardrobe *WardrobeHandler
	Look     *LookHandler
	Profile  *ProfileHandler
}

func NewProvider(cfg *config.Config, ingestService *ingest.Service, wardrobeService *wardrobe.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Auth:     NewAuthHandler(wardrobeService, cfg.JWTSecretKey, cfg.TokenTTL, log),
		Import:   NewImportHandler(cfg, ingestService, log),
		Wardrobe: NewWardrobeHandler(cfg, ingestService, wardrobeService, log),
		Look:     NewLookHandler(wardrobeService, log),
		Profile:  NewProfileHandler(wardrobeService, log),
	}
}
