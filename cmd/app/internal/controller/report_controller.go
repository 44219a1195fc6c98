package controller

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/service"
)

type ReportController struct {
	ReportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// DownloadReport streams the PDF summary for a sealed session.
func (rc *ReportController) DownloadReport(c *gin.Context) {
	sessionID := c.Param("session_id")

	path, err := rc.ReportService.ReportPath(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not available"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(path))
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
