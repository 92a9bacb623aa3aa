package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"healthmon/internal/domain"
	"healthmon/internal/repository"
)

type AuthService struct {
	repos *repository.Repos
}

// RegisterInput is the validated registration form.
type RegisterInput struct {
	Username          string
	Email             string
	Password          string
	Name              string
	Age               *int
	HeightCM          *float64
	WeightKG          *float64
	FitnessLevel      string
	MedicalConditions string
	Timezone          string
}

// Register creates an account, rejecting duplicate usernames and emails.
func (s *AuthService) Register(in RegisterInput) (*domain.User, error) {
	if _, err := s.repos.UserByUsername(in.Username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repos.UserByEmail(in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if in.FitnessLevel == "" {
		in.FitnessLevel = domain.ActivityModerate
	}
	if in.Timezone == "" {
		in.Timezone = "UTC"
	}
	u := &domain.User{
		UserID:            "user_" + uuid.NewString()[:8],
		Username:          in.Username,
		Email:             in.Email,
		PasswordHash:      string(hash),
		Name:              in.Name,
		Age:               in.Age,
		HeightCM:          in.HeightCM,
		WeightKG:          in.WeightKG,
		FitnessLevel:      in.FitnessLevel,
		MedicalConditions: in.MedicalConditions,
		Timezone:          in.Timezone,
		IsActive:          true,
	}
	if err := s.repos.CreateUser(u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Info().Str("user_id", u.UserID).Str("username", u.Username).Msg("user registered")
	return u, nil
}

// Authenticate verifies credentials and keeps login bookkeeping current.
func (s *AuthService) Authenticate(username, password string) (*domain.User, error) {
	u, err := s.repos.UserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		if err := s.repos.RecordFailedLogin(u.UserID); err != nil {
			log.Error().Err(err).Str("user_id", u.UserID).Msg("record failed login")
		}
		return nil, ErrInvalidCredentials
	}
	now := time.Now().UTC()
	if err := s.repos.RecordLogin(u.UserID, now); err != nil {
		log.Error().Err(err).Str("user_id", u.UserID).Msg("record login")
	}
	u.LastLogin = &now
	return u, nil
}

func (s *AuthService) UserByID(userID string) (*domain.User, error) {
	return s.repos.UserByUserID(userID)
}

// UpdateProfile applies mutable profile fields.
func (s *AuthService) UpdateProfile(u *domain.User) error {
	return s.repos.UpdateUserProfile(u)
}

// ChangePassword verifies the current password before setting the new one.
func (s *AuthService) ChangePassword(userID, current, next string) error {
	u, err := s.repos.UserByUserID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repos.UpdateUserPassword(userID, string(hash))
}
