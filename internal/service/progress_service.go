package service

import (
	"fmt"

	"gorm.io/gorm"
	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/db/query"
	"wellpath-backend-V2.0/internal/model"
)

// ProgressData holds the metrics for the progress report.
type ProgressData struct {
	InitialProgress map[string]interface{} `json:"initial_progress"`
	CurrentProgress map[string]interface{} `json:"current_progress"`
}

// GenerateProgressData computes the trust trajectory for a given user.
func GenerateProgressData(conn *gorm.DB, userID uint) (*ProgressData, error) {
	qe := db.NewQueryExecutor(conn)

	hasCompleted, err := qe.Exists("assessments", query.NewFilterPredicate().
		Equal("user_id", userID).
		Equal("status", "completed"))
	if err != nil {
		return nil, fmt.Errorf("failed to check for completed assessments: %w", err)
	}
	if !hasCompleted {
		return nil, fmt.Errorf("user %d has no completed assessments", userID)
	}

	// Oldest completed assessment.
	var initial model.Assessment
	if err := conn.Where("user_id = ? AND status = ?", userID, "completed").
		Order("created_at asc").
		First(&initial).Error; err != nil {
		return nil, fmt.Errorf("failed to get initial assessment: %w", err)
	}

	// Most recent completed assessment.
	var latest model.Assessment
	if err := conn.Where("user_id = ? AND status = ?", userID, "completed").
		Order("created_at desc").
		First(&latest).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest assessment: %w", err)
	}

	improvement := latest.TrustScore - initial.TrustScore

	completedPred := query.NewFilterPredicate().
		Equal("user_id", userID).
		Equal("status", "completed")
	totalCompleted, err := qe.Count("assessments", completedPred)
	if err != nil {
		return nil, fmt.Errorf("failed to count assessments: %w", err)
	}

	flaggedPred := query.NewFilterPredicate().
		Equal("user_id", userID).
		Equal("status", "completed").
		NotEqual("recommendation", "pass")
	flagged, err := qe.Count("assessments", flaggedPred)
	if err != nil {
		return nil, fmt.Errorf("failed to count flagged assessments: %w", err)
	}

	rows, err := qe.Select(
		`SELECT AVG(trust_score) AS avg_trust FROM assessments WHERE user_id = ? AND status = ?`,
		userID, "completed",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to average trust score: %w", err)
	}
	var avgTrust interface{}
	if len(rows) > 0 {
		avgTrust = rows[0]["avg_trust"]
	}

	initialProgress := map[string]interface{}{
		"trust_score":    initial.TrustScore,
		"recommendation": initial.Recommendation,
		"completed_at":   initial.CompletedAt,
	}

	currentProgress := map[string]interface{}{
		"trust_score":    latest.TrustScore,
		"recommendation": latest.Recommendation,
		"improvement":    improvement,
		"stats": map[string]interface{}{
			"total_completed":     totalCompleted,
			"flagged_assessments": flagged,
			"average_trust":       avgTrust,
		},
	}

	return &ProgressData{
		InitialProgress: initialProgress,
		CurrentProgress: currentProgress,
	}, nil
}
