// Package api exposes the stored record set and run history over HTTP
// for reporting collaborators.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DanGreiner33/texas-bar-scraper/api/handler"
	"github.com/DanGreiner33/texas-bar-scraper/config"
	"github.com/DanGreiner33/texas-bar-scraper/store"
)

// NewRouter creates a configured Gin engine with all routes.
//
// The API is read-only: it reports what the engine has persisted and
// never writes through the upsert contract.
func NewRouter(st *store.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.API.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(startTime))
	v1.GET("/stats", handler.Stats(st))
	v1.GET("/attorneys", handler.SearchAttorneys(st))
	v1.GET("/attorneys/export", handler.ExportAttorneys(st))
	v1.GET("/runs", handler.Runs(st))

	return r
}
