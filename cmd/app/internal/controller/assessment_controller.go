package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/flow"
	"wellpath-backend-V2.0/internal/repository"
	"wellpath-backend-V2.0/internal/service"
)

type AssessmentController struct {
	AssessmentService service.AssessmentService
}

func NewAssessmentController(assessmentService service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

func currentUserID(c *gin.Context) (uint, bool) {
	raw, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	userID, ok := raw.(uint)
	return userID, ok
}

func (ac *AssessmentController) StartAssessment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	view, err := ac.AssessmentService.StartAssessment(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ac *AssessmentController) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req struct {
		QuestionID string      `json:"question_id" binding:"required"`
		Value      interface{} `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: missing required fields"})
		return
	}

	view, err := ac.AssessmentService.SubmitAnswer(sessionID, req.QuestionID, req.Value)
	if err != nil {
		ac.writeStepError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ac *AssessmentController) ContinueSession(c *gin.Context) {
	view, err := ac.AssessmentService.ContinueSession(c.Param("session_id"))
	if err != nil {
		ac.writeStepError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ac *AssessmentController) GoBack(c *gin.Context) {
	view, err := ac.AssessmentService.GoBack(c.Param("session_id"))
	if err != nil {
		ac.writeStepError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ac *AssessmentController) GetSessionState(c *gin.Context) {
	view, err := ac.AssessmentService.GetSessionState(c.Param("session_id"))
	if err != nil {
		ac.writeStepError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ac *AssessmentController) GetAssessments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	assessments, err := ac.AssessmentService.GetAssessments(repository.AssessmentFilter{
		UserID: userID,
		Status: c.Query("status"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assessments)
}

func (ac *AssessmentController) GetAssessment(c *gin.Context) {
	assessment, err := ac.AssessmentService.GetAssessmentBySessionID(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// writeStepError maps engine failures to HTTP statuses. Validation problems
// are recoverable 400s, sequencing violations are 409s.
func (ac *AssessmentController) writeStepError(c *gin.Context, err error) {
	var validation *flow.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       validation.Error(),
			"question_id": validation.QuestionID,
			"recoverable": true,
		})
	case errors.Is(err, service.ErrOutOfSequence):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
