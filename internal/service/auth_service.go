package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"wellpath-backend-V2.0/internal/model"
	"wellpath-backend-V2.0/internal/repository"
	"wellpath-backend-V2.0/utilities"
)

// AuthService interface
type AuthService interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, error)
	CheckEmail(email string) (bool, error)
	CurrentUser(userID uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return errors.New("email cannot be empty")
	}
	if user.Password == "" {
		return errors.New("password cannot be empty")
	}

	exists, err := s.userRepo.EmailExists(user.Email)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}
	user.Password = string(hashed)

	if err := s.userRepo.CreateUser(user); err != nil {
		return errors.New("failed to store user in database")
	}

	utilities.GlobalEventBus.Publish(utilities.EventUserRegistered, user.ID)
	return nil
}

// Login authenticates a user by email and password
func (s *authService) Login(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	// Remove password before returning user data
	user.Password = ""
	return user, nil
}

// CheckEmail reports whether an account already exists for the address.
func (s *authService) CheckEmail(email string) (bool, error) {
	return s.userRepo.EmailExists(strings.ToLower(strings.TrimSpace(email)))
}

// CurrentUser resolves the authenticated user's record.
func (s *authService) CurrentUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	user.Password = ""
	return user, nil
}
