package repository

import (
	"errors"

	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/db/query"
	"wellpath-backend-V2.0/internal/model"
)

// AssessmentFilter - optional criteria for listing persisted sessions.
type AssessmentFilter struct {
	UserID         uint
	Status         string
	Recommendation string
}

type AssessmentRepository interface {
	CreateAssessment(assessment *model.Assessment) error
	UpdateAssessment(assessment *model.Assessment) error
	GetAssessments(filter AssessmentFilter) ([]model.Assessment, error)
	GetAssessmentBySessionID(sessionID string) (*model.Assessment, error)
	GetCurrentAssessmentByUser(userID uint) (*model.Assessment, error)
	CountCompletedByUser(userID uint) (int, error)
}

type assessmentRepository struct{}

func NewAssessmentRepository() AssessmentRepository {
	return &assessmentRepository{}
}

func (r *assessmentRepository) CreateAssessment(assessment *model.Assessment) error {
	return db.GetDB().Create(assessment).Error
}

func (r *assessmentRepository) UpdateAssessment(assessment *model.Assessment) error {
	return db.GetDB().Save(assessment).Error
}

func (r *assessmentRepository) GetAssessments(filter AssessmentFilter) ([]model.Assessment, error) {
	pred := query.NewFilterPredicate()
	if filter.UserID != 0 {
		pred.Equal("user_id", filter.UserID)
	}
	if filter.Status != "" {
		pred.Equal("status", filter.Status)
	}
	if filter.Recommendation != "" {
		pred.Equal("recommendation", filter.Recommendation)
	}

	var assessments []model.Assessment
	tx := db.GetDB().Order("created_at DESC")
	if !pred.Empty() {
		where, args := pred.Build()
		tx = tx.Where(where, args...)
	}
	err := tx.Find(&assessments).Error
	return assessments, err
}

func (r *assessmentRepository) GetAssessmentBySessionID(sessionID string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := db.GetDB().Where("session_id = ?", sessionID).First(&assessment).Error
	if err != nil {
		return nil, errors.New("assessment not found")
	}
	return &assessment, nil
}

func (r *assessmentRepository) GetCurrentAssessmentByUser(userID uint) (*model.Assessment, error) {
	var assessment model.Assessment
	err := db.GetDB().Where("user_id = ? AND status = ?", userID, "in_progress").First(&assessment).Error
	return &assessment, err
}

func (r *assessmentRepository) CountCompletedByUser(userID uint) (int, error) {
	var count int64
	err := db.GetDB().Model(&model.Assessment{}).Where("user_id = ? AND status = ?", userID, "completed").Count(&count).Error
	return int(count), err
}
