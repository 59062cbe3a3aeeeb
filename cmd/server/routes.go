package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/airwave-radio/airwave/internal/config"
	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/export"
	"github.com/airwave-radio/airwave/internal/http/api"
	"github.com/airwave-radio/airwave/internal/http/api/admin/endpoints"
	"github.com/airwave-radio/airwave/internal/probe"
	"github.com/airwave-radio/airwave/internal/secrets"
	"github.com/airwave-radio/airwave/internal/transfer"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store,
	box *secrets.Box, agent *transfer.Agent, prober *probe.Prober, exporter *export.Exporter) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Disposition",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		endpoints.AuthPublicModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		// catalog modules
		endpoints.GenreModule(store),
		endpoints.StationModule(store, prober),
		endpoints.PlayerAppModule(store, box, agent),
		endpoints.ProfileModule(store, exporter, prober),
		// session endpoints that require auth
		endpoints.AuthSessionModule(cfg.JWTSecret, store),
	)
}
