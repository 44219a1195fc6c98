package repository

import (
	"errors"

	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(userID uint) (*model.User, error)
	EmailExists(email string) (bool, error)
	MarkOnboardingDone(userID uint) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) CreateUser(user *model.User) error {
	return db.GetDB().Create(user).Error
}

func (r *userRepository) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := db.GetDB().Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(userID uint) (*model.User, error) {
	var user model.User
	err := db.GetDB().Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := db.GetDB().Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) MarkOnboardingDone(userID uint) error {
	return db.GetDB().Model(&model.User{}).Where("id = ?", userID).Update("onboarding_done", true).Error
}
