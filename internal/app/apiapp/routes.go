package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/config"
	ratesvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/rate"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/handlers"
)

type Dependencies struct {
	GenerateService handlers.GenerateService
	DetectService   handlers.DetectService
	AssetService    handlers.AssetOpener
	RateLimiter     *ratesvc.Limiter
	Logger          *zap.Logger
	Config          config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	generateHandler := handlers.NewGenerateHandler(deps.GenerateService)
	detectHandler := handlers.NewDetectHandler(deps.DetectService)
	assetHandler := handlers.NewAssetHandler(deps.AssetService)
	profileHandler := handlers.NewProfileHandler(deps.Config.Prompt.ScenePrompts)

	apiKeyMW := APIKeyMiddleware(deps.Config.Security.APIKey)
	rateMW := RateLimitMiddleware(deps.RateLimiter, deps.Config.Security.TrustedIPHeader, deps.Logger)

	r.Get("/health", healthHandler.Handle)
	r.Post("/profile", profileHandler.Handle)
	// Asset routes mirror the key namespaces so PublicURL links resolve as-is.
	r.Get("/generated/*", assetHandler.Handle)
	r.Get("/uploads/*", assetHandler.Handle)
	r.With(apiKeyMW, rateMW).Post("/generate", generateHandler.Handle)
	r.With(apiKeyMW, rateMW).Post("/test-gender", detectHandler.Handle)
}
