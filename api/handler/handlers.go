package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DanGreiner33/texas-bar-scraper/store"
)

// Health returns a handler for GET /api/v1/health.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": "0.1.0",
		})
	}
}

// Stats returns a handler for GET /api/v1/stats.
func Stats(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := st.GetStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// SearchAttorneys returns a handler for GET /api/v1/attorneys.
//
// Query parameters: state, name, city, firm, status, practice_area,
// limit (default 50).
func SearchAttorneys(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := filterFromQuery(c)

		records, err := st.Search(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"count":     len(records),
			"attorneys": records,
		})
	}
}

// ExportAttorneys returns a handler for GET /api/v1/attorneys/export,
// streaming the matching records as CSV.
func ExportAttorneys(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := filterFromQuery(c)
		filter.Limit = 0 // export ignores the paging default

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="attorneys_export.csv"`)
		if _, err := st.ExportCSV(c.Request.Context(), c.Writer, filter); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

// Runs returns a handler for GET /api/v1/runs.
func Runs(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		runs, err := st.Runs(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
	}
}

func filterFromQuery(c *gin.Context) store.SearchFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	return store.SearchFilter{
		Jurisdiction: c.Query("state"),
		Name:         c.Query("name"),
		City:         c.Query("city"),
		Firm:         c.Query("firm"),
		Status:       c.Query("status"),
		PracticeArea: c.Query("practice_area"),
		Limit:        limit,
	}
}
