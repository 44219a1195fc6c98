package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"wellpath-backend-V2.0/internal/flow"
	"wellpath-backend-V2.0/internal/model"
	"wellpath-backend-V2.0/internal/repository"
	"wellpath-backend-V2.0/utilities"
)

type ReportService interface {
	GenerateReport(sessionID string) (string, error)
	ReportPath(sessionID string) (string, error)
}

type reportService struct {
	assessmentRepo repository.AssessmentRepository
	userRepo       repository.UserRepository
	outputDir      string
}

func NewReportService(assessmentRepo repository.AssessmentRepository, userRepo repository.UserRepository, outputDir string) ReportService {
	if outputDir == "" {
		outputDir = "working/reports"
	}
	return &reportService{
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
		outputDir:      outputDir,
	}
}

// InitReportEventListeners renders a PDF summary whenever a session seals.
func InitReportEventListeners(assessmentRepo repository.AssessmentRepository, userRepo repository.UserRepository, outputDir string) {
	svc := NewReportService(assessmentRepo, userRepo, outputDir)
	utilities.GlobalEventBus.Subscribe(utilities.EventAssessmentCompleted, func(data interface{}) {
		completed, ok := data.(AssessmentCompletedEvent)
		if !ok {
			utilities.Warn("Invalid completion payload for report generation")
			return
		}
		if _, err := svc.GenerateReport(completed.SessionID); err != nil {
			utilities.Error("Report generation failed for session %s: %v", completed.SessionID, err)
		}
	})
}

// GenerateReport renders the sealed session into a PDF and returns its path.
func (s *reportService) GenerateReport(sessionID string) (string, error) {
	assessment, err := s.assessmentRepo.GetAssessmentBySessionID(sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch assessment: %w", err)
	}
	if assessment.Status != "completed" {
		return "", fmt.Errorf("session %s is not completed", sessionID)
	}

	user, err := s.userRepo.GetUserByID(assessment.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user: %w", err)
	}

	var risk flow.RiskScore
	if len(assessment.Risk) > 0 {
		if err := json.Unmarshal(assessment.Risk, &risk); err != nil {
			return "", fmt.Errorf("failed to decode risk payload: %w", err)
		}
	}
	var consistency flow.ConsistencyReport
	if len(assessment.Consistency) > 0 {
		if err := json.Unmarshal(assessment.Consistency, &consistency); err != nil {
			return "", fmt.Errorf("failed to decode consistency payload: %w", err)
		}
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Health Assessment Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Participant: %s %s (%s)", user.FirstName, user.LastName, user.Email))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Session: %s", assessment.SessionID))
	pdf.Ln(8)
	if assessment.CompletedAt != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Completed: %s", assessment.CompletedAt.Format("2006-01-02 15:04")))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 10, "Consistency")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Trust score: %.1f / 100", consistency.TrustScore))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Recommendation: %s", strings.ToUpper(string(consistency.Recommendation))))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 10, "Risk by category")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)

	categories := make([]string, 0, len(risk.Categories))
	for category := range risk.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.2f", category, risk.Categories[category]))
		pdf.Ln(8)
	}
	if len(categories) == 0 {
		pdf.Cell(0, 8, "No weighted responses recorded.")
		pdf.Ln(8)
	}

	if len(risk.Flags) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 10, "Raised flags")
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 11)
		for _, f := range risk.Flags {
			pdf.Cell(0, 8, "- "+f)
			pdf.Ln(8)
		}
	}

	outputPath := s.pathFor(assessment)
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("failed to save PDF: %w", err)
	}

	utilities.Info("Report written for session %s: %s", sessionID, outputPath)
	return outputPath, nil
}

// ReportPath returns the PDF location for a sealed session, rendering it on
// demand when missing.
func (s *reportService) ReportPath(sessionID string) (string, error) {
	assessment, err := s.assessmentRepo.GetAssessmentBySessionID(sessionID)
	if err != nil {
		return "", err
	}
	path := s.pathFor(assessment)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return s.GenerateReport(sessionID)
}

func (s *reportService) pathFor(assessment *model.Assessment) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("report_%s.pdf", assessment.SessionID))
}
