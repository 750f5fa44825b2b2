// internal/service/profile_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// ProfileService manages the profiles of authenticated users.
type ProfileService interface {
	// EnsureProfile returns the user's profile, creating it on first sight.
	EnsureProfile(ctx context.Context, userID, email string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewProfileService creates a new instance of ProfileService.
func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{
		userRepo: userRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) EnsureProfile(ctx context.Context, userID, email string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, util.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	user = domain.NewUser(userID, email, s.now())
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Another request created it first.
		if util.IsError(err, util.ErrDuplicateEntry) {
			return s.GetProfile(ctx, userID)
		}
		return nil, fmt.Errorf("ensure profile: failed to create user: %w", err)
	}
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", util.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(firstName)
	user.LastName = strings.TrimSpace(lastName)
	user.UpdatedAt = s.now()
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", util.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
