package service

import (
	"errors"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotGymOwner = errors.New("user does not own this gym account")

// GymUpdateRequest carries the owner-editable business fields
type GymUpdateRequest struct {
	BusinessName  string
	BusinessEmail string
	Address       string
	Description   string
	DocumentURL   string
}

type GymService interface {
	SearchGyms(opts repository.GymSearchOptions) ([]*model.GymAccount, int64, error)
	GetGym(id uint) (*model.GymAccount, error)
	GetOwnGym(userID uint) (*model.GymAccount, error)
	UpdateOwnGym(userID uint, req GymUpdateRequest) (*model.GymAccount, error)
}

type gymService struct {
	gymRepo repository.GymAccountRepository
}

func NewGymService(gymRepo repository.GymAccountRepository) GymService {
	return &gymService{gymRepo: gymRepo}
}

// SearchGyms serves the public directory: approved gyms only, by invariant
func (s *gymService) SearchGyms(opts repository.GymSearchOptions) ([]*model.GymAccount, int64, error) {
	return s.gymRepo.ListApproved(opts)
}

// GetGym returns a gym for public viewing. Unapproved gyms are hidden, the
// same gate as the directory.
func (s *gymService) GetGym(id uint) (*model.GymAccount, error) {
	account, err := s.gymRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymAccountNotFound
		}
		return nil, err
	}
	if account.VerificationStatus != model.VerificationStatusApproved {
		return nil, ErrGymAccountNotFound
	}
	return account, nil
}

// GetOwnGym returns the caller's own gym account regardless of status, so
// owners can watch their verification progress
func (s *gymService) GetOwnGym(userID uint) (*model.GymAccount, error) {
	account, err := s.gymRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// UpdateOwnGym lets the owner edit business details. Verification state and
// payment capability are admin territory and never touched here.
func (s *gymService) UpdateOwnGym(userID uint, req GymUpdateRequest) (*model.GymAccount, error) {
	account, err := s.gymRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymAccountNotFound
		}
		return nil, err
	}

	if req.BusinessName != "" {
		account.BusinessName = req.BusinessName
	}
	if req.BusinessEmail != "" {
		account.BusinessEmail = req.BusinessEmail
	}
	if req.Address != "" {
		account.Address = req.Address
	}
	if req.Description != "" {
		account.Description = req.Description
	}
	if req.DocumentURL != "" {
		account.DocumentURL = req.DocumentURL
	}

	if err := s.gymRepo.Update(account); err != nil {
		return nil, err
	}

	logger.Info("Gym account updated by owner", map[string]interface{}{
		"gym_account_id": account.ID,
		"user_id":        userID,
	})

	return account, nil
}
