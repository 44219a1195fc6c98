package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/service"
)

type GamificationController struct {
	GamificationService service.GamificationService
}

func NewGamificationController(gamificationService service.GamificationService) *GamificationController {
	return &GamificationController{GamificationService: gamificationService}
}

func (gc *GamificationController) GetBadges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	badges, err := gc.GamificationService.GetBadges(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (gc *GamificationController) GetProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	progress, err := gc.GamificationService.GetProgress(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetProgressReport returns the trust trajectory across completed sessions.
func (gc *GamificationController) GetProgressReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	data, err := service.GenerateProgressData(db.GetDB(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed assessments yet"})
		return
	}
	c.JSON(http.StatusOK, data)
}
