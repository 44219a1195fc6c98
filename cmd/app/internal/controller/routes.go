package controller

import (
	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/cache"
	"wellpath-backend-V2.0/internal/flow"
	"wellpath-backend-V2.0/internal/service"
	"wellpath-backend-V2.0/utilities"
)

func RegisterRoutes(
	r *gin.Engine,
	version string,
	questionCatalog *flow.Catalog,
	authService service.AuthService,
	assessmentService service.AssessmentService,
	gamificationService service.GamificationService,
	reportService service.ReportService,
	trustCache cache.TrustCache,
	loginLimiter *utilities.LoginRateLimiter,
) {
	// Auth routes.
	authCtrl := NewAuthController(authService)
	authRoutes := r.Group("/auth")
	if loginLimiter != nil {
		authRoutes.Use(loginLimiter.Middleware())
	}
	{
		authRoutes.POST("/register", authCtrl.Register)
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.POST("/refresh", authCtrl.Refresh)
		authRoutes.GET("/check-email", authCtrl.CheckEmail)
	}
	// Token-gated view of the account behind the session.
	r.GET("/api/auth/user", authCtrl.CurrentUser)

	// Questionnaire template metadata.
	catalogCtrl := NewCatalogController(questionCatalog)
	r.GET("/api/health-questionnaires/templates", catalogCtrl.GetTemplates)

	// Assessment session routes.
	assessmentCtrl := NewAssessmentController(assessmentService)
	assessRoutes := r.Group("/assessments")
	{
		assessRoutes.POST("/start", assessmentCtrl.StartAssessment)
		assessRoutes.GET("", assessmentCtrl.GetAssessments)
		assessRoutes.GET("/:session_id", assessmentCtrl.GetAssessment)
		assessRoutes.GET("/:session_id/state", assessmentCtrl.GetSessionState)
		assessRoutes.POST("/:session_id/answer", assessmentCtrl.SubmitAnswer)
		assessRoutes.POST("/:session_id/continue", assessmentCtrl.ContinueSession)
		assessRoutes.POST("/:session_id/back", assessmentCtrl.GoBack)
	}

	// Reports.
	reportCtrl := NewReportController(reportService)
	r.GET("/assessments/:session_id/report", reportCtrl.DownloadReport)

	// Gamification routes.
	gamificationCtrl := NewGamificationController(gamificationService)
	gamificationRoutes := r.Group("/api/gamification")
	{
		gamificationRoutes.GET("/badges", gamificationCtrl.GetBadges)
		gamificationRoutes.GET("/progress", gamificationCtrl.GetProgress)
		gamificationRoutes.GET("/progress/report", gamificationCtrl.GetProgressReport)
	}

	// Health, info and cached session status.
	healthCtrl := NewHealthController(version, trustCache, assessmentService)
	r.GET("/api/health", healthCtrl.Health)
	r.GET("/api/info", healthCtrl.Info)
	r.GET("/api/assessments/:session_id/status", healthCtrl.SessionStatus)
}
