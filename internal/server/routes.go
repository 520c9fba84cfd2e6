package server

import (
	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes(deps Deps) {
	s.router.Post("/audit", handlers.RunAudit(deps.Pipeline))
	s.router.Get("/audit/{id}", handlers.GetAudit(deps.Audits))
	s.router.Get("/audits", handlers.ListAudits(deps.Audits))
	s.router.Get("/export/{id}", handlers.ExportAudit(deps.Audits))

	s.router.Post("/generate-queries", handlers.GenerateQueries(deps.Generator))
	s.router.Post("/serp-search", handlers.SerpSearch(deps.Serp))
	s.router.Post("/perplexity-search", handlers.PerplexitySearch(deps.Perplexity))

	s.router.Post("/chat", handlers.Chat(deps.Chat, deps.Registry, deps.ChatModel))

	s.router.Get("/health", handlers.Health(deps.Version, deps.Checkers))
	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", metrics.Handler().ServeHTTP)
}
