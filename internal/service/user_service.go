package service

import (
	"context"
	"errors"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInactive     = errors.New("user profile is deactivated")
	ErrValidationFailed = errors.New("profile validation failed")
)

// UserService manages user profiles. BMI and its category are derived
// fields, recomputed on every edit; profiles are deactivated, never
// deleted.
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.UserProfile, error)
	DeactivateProfile(ctx context.Context, userID primitive.ObjectID) error
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave
// the stored value untouched.
type ProfileUpdate struct {
	Name          *string
	Age           *int
	HeightCm      *float64
	WeightKg      *float64
	FitnessLevel  *domain.FitnessLevel
	PrimaryGoal   *domain.Goal
	EquipmentList *[]string
	InjuryTypes   *[]string
}

// userService implements the UserService interface.
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile retrieves a user profile by ID.
func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the submitted edits and recomputes the BMI
// snapshot before persisting.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, ErrValidationFailed
		}
		user.Name = *update.Name
	}
	if update.Age != nil {
		if *update.Age < 10 || *update.Age > 100 {
			return nil, ErrValidationFailed
		}
		user.Age = *update.Age
	}
	if update.HeightCm != nil {
		if *update.HeightCm < 100 || *update.HeightCm > 250 {
			return nil, ErrValidationFailed
		}
		user.HeightCm = *update.HeightCm
	}
	if update.WeightKg != nil {
		if *update.WeightKg < 30 || *update.WeightKg > 300 {
			return nil, ErrValidationFailed
		}
		user.WeightKg = *update.WeightKg
	}
	if update.FitnessLevel != nil {
		user.FitnessLevel = *update.FitnessLevel
	}
	if update.PrimaryGoal != nil {
		user.PrimaryGoal = *update.PrimaryGoal
	}
	if update.EquipmentList != nil {
		user.EquipmentList = *update.EquipmentList
	}
	if update.InjuryTypes != nil {
		user.InjuryTypes = *update.InjuryTypes
	}

	user.RefreshBMI()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// DeactivateProfile marks the profile inactive.
func (s *userService) DeactivateProfile(ctx context.Context, userID primitive.ObjectID) error {
	err := s.userRepo.Deactivate(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
