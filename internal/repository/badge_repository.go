package repository

import (
	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/model"
)

type BadgeRepository interface {
	SaveBadge(badge *model.Badge) error
	GetBadgesByUser(userID uint) ([]model.Badge, error)
	HasBadge(userID uint, code string) (bool, error)
}

type badgeRepository struct{}

func NewBadgeRepository() BadgeRepository {
	return &badgeRepository{}
}

func (r *badgeRepository) SaveBadge(badge *model.Badge) error {
	return db.GetDB().Create(badge).Error
}

func (r *badgeRepository) GetBadgesByUser(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := db.GetDB().Where("user_id = ?", userID).Order("awarded_at ASC").Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepository) HasBadge(userID uint, code string) (bool, error) {
	var count int64
	err := db.GetDB().Model(&model.Badge{}).Where("user_id = ? AND code = ?", userID, code).Count(&count).Error
	return count > 0, err
}
