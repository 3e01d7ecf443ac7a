package handlers

import (
	"scamshield/internal/domain/services"
	"scamshield/internal/infrastructure/cache"
	"scamshield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health  *HealthHandler
	Analyze *AnalyzeHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analyzer *services.Analyzer
	Cache    *cache.RedisCache
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Cache, deps.Logger),
		Analyze: NewAnalyzeHandler(deps.Analyzer, deps.Logger),
	}
}
