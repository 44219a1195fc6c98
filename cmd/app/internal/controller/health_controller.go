package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/cache"
	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/service"
)

// HealthController serves the unauthenticated health and info probes plus
// the cached session status endpoint the dashboard polls.
type HealthController struct {
	Version           string
	TrustCache        cache.TrustCache
	AssessmentService service.AssessmentService
}

func NewHealthController(version string, trustCache cache.TrustCache, assessmentService service.AssessmentService) *HealthController {
	return &HealthController{
		Version:           version,
		TrustCache:        trustCache,
		AssessmentService: assessmentService,
	}
}

func (hc *HealthController) Health(c *gin.Context) {
	dbStatus := "up"
	if conn := db.GetDB(); conn != nil {
		if sqlDB, err := conn.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	} else {
		dbStatus = "down"
	}

	redisStatus := "disabled"
	if client := cache.GetRedis(); client != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
	}

	status := http.StatusOK
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now().UTC(),
	})
}

func (hc *HealthController) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "WellPath API",
		"version": hc.Version,
	})
}

// SessionStatus serves the latest trust snapshot. It prefers the Redis copy
// and falls back to the live engine.
func (hc *HealthController) SessionStatus(c *gin.Context) {
	sessionID := c.Param("session_id")

	if hc.TrustCache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if snap, err := hc.TrustCache.Get(ctx, sessionID); err == nil {
			c.JSON(http.StatusOK, snap)
			return
		}
	}

	view, err := hc.AssessmentService.GetSessionState(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":     view.SessionID,
		"progress":       view.Progress,
		"trust_score":    view.TrustScore,
		"recommendation": view.Recommendation,
		"risk_flags":     view.RiskFlags,
	})
}
