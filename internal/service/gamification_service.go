package service

import (
	"time"

	"wellpath-backend-V2.0/internal/model"
	"wellpath-backend-V2.0/internal/repository"
	"wellpath-backend-V2.0/utilities"
)

// Badge codes awarded by the engagement listeners.
const (
	BadgeFirstAssessment = "first_assessment"
	BadgeFiveAssessments = "five_assessments"
	BadgeStraightShooter = "straight_shooter" // trust score 90 or better
	BadgeEarlyBird       = "early_bird"       // registered and finished same day
)

var badgeLabels = map[string]string{
	BadgeFirstAssessment: "First Check-In",
	BadgeFiveAssessments: "Habit Builder",
	BadgeStraightShooter: "Straight Shooter",
	BadgeEarlyBird:       "Early Bird",
}

// GamificationService awards badges off completion events and serves the
// progress endpoints.
type GamificationService interface {
	GetBadges(userID uint) ([]model.Badge, error)
	GetProgress(userID uint) (map[string]interface{}, error)
}

type gamificationService struct {
	badgeRepo      repository.BadgeRepository
	assessmentRepo repository.AssessmentRepository
	userRepo       repository.UserRepository
}

func NewGamificationService(
	badgeRepo repository.BadgeRepository,
	assessmentRepo repository.AssessmentRepository,
	userRepo repository.UserRepository,
) GamificationService {
	return &gamificationService{
		badgeRepo:      badgeRepo,
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
	}
}

// InitGamificationEventListeners subscribes the badge rules to the bus.
func InitGamificationEventListeners(
	badgeRepo repository.BadgeRepository,
	assessmentRepo repository.AssessmentRepository,
	userRepo repository.UserRepository,
) {
	svc := &gamificationService{
		badgeRepo:      badgeRepo,
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
	}

	utilities.GlobalEventBus.Subscribe(utilities.EventAssessmentCompleted, func(data interface{}) {
		completed, ok := data.(AssessmentCompletedEvent)
		if !ok {
			utilities.Warn("Invalid completion payload for badge evaluation")
			return
		}
		svc.evaluateBadges(completed)
	})
}

func (g *gamificationService) evaluateBadges(completed AssessmentCompletedEvent) {
	count, err := g.assessmentRepo.CountCompletedByUser(completed.UserID)
	if err != nil {
		utilities.Error("Badge evaluation failed for user %d: %v", completed.UserID, err)
		return
	}

	if count >= 1 {
		g.award(completed.UserID, BadgeFirstAssessment)
	}
	if count >= 5 {
		g.award(completed.UserID, BadgeFiveAssessments)
	}

	assessment, err := g.assessmentRepo.GetAssessmentBySessionID(completed.SessionID)
	if err != nil {
		utilities.Error("Badge evaluation could not load session %s: %v", completed.SessionID, err)
		return
	}
	if assessment.TrustScore >= 90 {
		g.award(completed.UserID, BadgeStraightShooter)
	}

	user, err := g.userRepo.GetUserByID(completed.UserID)
	if err == nil && assessment.CompletedAt != nil &&
		sameDay(user.CreatedAt, *assessment.CompletedAt) {
		g.award(completed.UserID, BadgeEarlyBird)
	}
}

func (g *gamificationService) award(userID uint, code string) {
	has, err := g.badgeRepo.HasBadge(userID, code)
	if err != nil || has {
		return
	}
	badge := model.Badge{
		UserID:    userID,
		Code:      code,
		Label:     badgeLabels[code],
		AwardedAt: time.Now(),
	}
	if err := g.badgeRepo.SaveBadge(&badge); err != nil {
		utilities.Error("Failed to save badge %s for user %d: %v", code, userID, err)
		return
	}
	utilities.Info("Awarded badge %s to user %d", code, userID)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (g *gamificationService) GetBadges(userID uint) ([]model.Badge, error) {
	return g.badgeRepo.GetBadgesByUser(userID)
}

// GetProgress summarizes a user's assessment history for the dashboard.
func (g *gamificationService) GetProgress(userID uint) (map[string]interface{}, error) {
	assessments, err := g.assessmentRepo.GetAssessments(repository.AssessmentFilter{
		UserID: userID,
		Status: "completed",
	})
	if err != nil {
		return nil, err
	}

	badges, err := g.badgeRepo.GetBadgesByUser(userID)
	if err != nil {
		return nil, err
	}

	var trustSum float64
	for _, a := range assessments {
		trustSum = trustSum + a.TrustScore
	}
	avgTrust := 0.0
	if len(assessments) > 0 {
		avgTrust = trustSum / float64(len(assessments))
	}

	return map[string]interface{}{
		"completed_assessments": len(assessments),
		"average_trust_score":   avgTrust,
		"badges":                badges,
		"badge_count":           len(badges),
	}, nil
}
