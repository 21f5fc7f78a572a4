package server

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modelpulse/modelpulse/internal/core"
	"github.com/modelpulse/modelpulse/internal/tracker"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUsage serves the filtered, sorted usage snapshot. Invalid enum
// parameters normalize to their defaults instead of erroring.
func (s *Server) handleUsage(c *gin.Context) {
	tf := core.NormalizeTimeframe(c.Query("timeframe"))
	sortBy := core.NormalizeSortBy(c.Query("sort"))
	category := c.Query("category")

	snap, err := s.store.UsageData(c.Request.Context(), tf, sortBy, category)
	if err != nil {
		s.logger.Error("usage_query_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load usage data"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleModelDetail(c *gin.Context) {
	// Model ids contain slashes ("lora/foo.safetensors"), hence the
	// wildcard route and the leading-slash trim.
	modelID := strings.TrimPrefix(c.Param("id"), "/")

	detail, err := s.store.ModelDetail(c.Request.Context(), modelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
			return
		}
		s.logger.Error("model_detail_failed", zap.String("model_id", modelID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load model"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type categoryCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

func (s *Server) handleCategories(c *gin.Context) {
	snap, err := s.store.UsageData(c.Request.Context(), core.TimeframeAll, core.SortByLastUsed, "")
	if err != nil {
		s.logger.Error("categories_query_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	counts := make(map[string]int)
	for _, m := range snap.Models {
		counts[m.Category]++
	}

	categories := make([]categoryCount, 0, len(core.KnownCategories))
	for _, id := range core.KnownCategories {
		meta := core.MetaForCategory(id)
		categories = append(categories, categoryCount{
			ID:    id,
			Name:  meta.DisplayName,
			Icon:  meta.Icon,
			Count: counts[id],
		})
	}
	// Busiest categories first; the canonical order breaks ties since
	// the sort is stable.
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Count > categories[j].Count
	})

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) handleReset(c *gin.Context) {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if !body.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Confirmation required. Send {"confirm": true}`})
		return
	}

	if err := s.store.Reset(c.Request.Context()); err != nil {
		s.logger.Error("reset_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset tracking data"})
		return
	}
	s.logger.Info("tracking_reset", zap.String("request_id", c.GetString(requestIDKey)))
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Tracking data reset"})
}

func (s *Server) handleCleanup(c *gin.Context) {
	maxDays := 365
	var body struct {
		MaxDays int `json:"max_days"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.MaxDays >= 1 {
		maxDays = body.MaxDays
	}

	removed, err := s.store.Cleanup(c.Request.Context(), maxDays)
	if err != nil {
		s.logger.Error("cleanup_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clean up usage logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"removed": removed,
	})
}

// handleTrack ingests one workflow prompt document and records every model
// it references. Tracking must never break workflow execution, so short of
// an unreadable body this always accepts: extraction misses and storage
// errors are logged, not surfaced.
func (s *Server) handleTrack(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	refs := tracker.ExtractModels(body)
	if len(refs) > 0 {
		if err := s.store.RecordUsage(c.Request.Context(), refs); err != nil {
			s.logger.Error("record_usage_failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "ok", "recorded": len(refs)})
}
