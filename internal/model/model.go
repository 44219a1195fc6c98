package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username"`
	Email          string    `json:"email" gorm:"not null;unique"`
	Password       string    `json:"password,omitempty"` // Exclude from JSON responses
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	OnboardingDone bool      `json:"onboarding_done" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Assessment - one questionnaire session. Responses, risk and consistency
// hold the sealed JSON produced when the session completes.
type Assessment struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"not null"`
	SessionID      string         `json:"session_id" gorm:"not null;unique"`
	CatalogName    string         `json:"catalog_name"`
	Status         string         `json:"status" gorm:"default:'in_progress'"` // in_progress, completed, abandoned
	Progress       float64        `json:"progress"`
	Responses      datatypes.JSON `json:"responses"`
	Risk           datatypes.JSON `json:"risk"`
	Consistency    datatypes.JSON `json:"consistency"`
	TrustScore     float64        `json:"trust_score"`
	Recommendation string         `json:"recommendation"`
	RiskFlags      string         `json:"risk_flags"` // comma separated, kept queryable
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

type Badge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Code      string    `json:"code" gorm:"not null"`
	Label     string    `json:"label"`
	AwardedAt time.Time `json:"awarded_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
