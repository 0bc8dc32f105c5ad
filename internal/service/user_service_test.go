package service

import (
	"context"
	"errors"
	"testing"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID    map[primitive.ObjectID]*domain.UserProfile
	byEmail map[string]*domain.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[primitive.ObjectID]*domain.UserProfile{},
		byEmail: map[string]*domain.UserProfile{},
	}
}

func (f *fakeUserRepo) add(user *domain.UserProfile) *domain.UserProfile {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.UserProfile) (primitive.ObjectID, error) {
	stored := *user
	f.add(&stored)
	return stored.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.UserProfile, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.UserProfile) error {
	if _, ok := f.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsActive = false
	return nil
}

func activeUser() *domain.UserProfile {
	user := &domain.UserProfile{
		Name:         "Test User",
		Email:        "test@example.com",
		Age:          30,
		HeightCm:     175,
		WeightKg:     70,
		FitnessLevel: domain.LevelBeginner,
		PrimaryGoal:  domain.GoalGeneralFitness,
		IsActive:     true,
	}
	user.RefreshBMI()
	return user
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestUpdateProfileRecomputesBMI(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.add(activeUser())
	svc := NewUserService(repo)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		WeightKg: floatPtr(120),
		HeightCm: floatPtr(170),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if updated.BMI != 41.52 {
		t.Errorf("BMI = %v, want 41.52", updated.BMI)
	}
	if updated.BMICategory != domain.BMISevereObese {
		t.Errorf("BMICategory = %v, want severe_obese", updated.BMICategory)
	}

	// The derived fields are persisted, not just returned.
	stored, _ := repo.GetByID(context.Background(), user.ID)
	if stored.BMICategory != domain.BMISevereObese {
		t.Errorf("persisted BMICategory = %v, want severe_obese", stored.BMICategory)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.add(activeUser())
	svc := NewUserService(repo)

	tests := []struct {
		name   string
		update ProfileUpdate
	}{
		{"empty name", ProfileUpdate{Name: new(string)}},
		{"age too low", ProfileUpdate{Age: intPtr(5)}},
		{"age too high", ProfileUpdate{Age: intPtr(150)}},
		{"height too low", ProfileUpdate{HeightCm: floatPtr(50)}},
		{"weight too high", ProfileUpdate{WeightKg: floatPtr(500)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(context.Background(), user.ID, tt.update)
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error = %v, want %v", err, ErrValidationFailed)
			}
		})
	}
}

func TestUpdateProfileInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	user := activeUser()
	user.IsActive = false
	repo.add(user)
	svc := NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Age: intPtr(35)})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("error = %v, want %v", err, ErrUserInactive)
	}
}

func TestGetProfileStripsPasswordHash(t *testing.T) {
	repo := newFakeUserRepo()
	user := activeUser()
	user.PasswordHash = "secret-hash"
	repo.add(user)
	svc := NewUserService(repo)

	got, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.PasswordHash != "" {
		t.Error("password hash leaked through the service")
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetProfile(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestDeactivateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.add(activeUser())
	svc := NewUserService(repo)

	if err := svc.DeactivateProfile(context.Background(), user.ID); err != nil {
		t.Fatalf("DeactivateProfile() error = %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), user.ID)
	if stored.IsActive {
		t.Error("profile still active after deactivation")
	}
}
