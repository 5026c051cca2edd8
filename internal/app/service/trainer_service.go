package service

import (
	"errors"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNegativeHourlyRate = errors.New("hourly rate cannot be negative")

// TrainerUpdateRequest carries the owner-editable trainer fields
type TrainerUpdateRequest struct {
	Specializations []string
	Certifications  []string
	HourlyRate      *float64
	Bio             string
}

type TrainerService interface {
	SearchTrainers(opts repository.TrainerSearchOptions) ([]*model.TrainerProfile, int64, error)
	GetTrainer(id uint) (*model.TrainerProfile, error)
	GetOwnProfile(userID uint) (*model.TrainerProfile, error)
	UpdateOwnProfile(userID uint, req TrainerUpdateRequest) (*model.TrainerProfile, error)
	SetAcceptingClients(userID uint, accepting bool) (*model.TrainerProfile, error)
}

type trainerService struct {
	trainerRepo repository.TrainerRepository
}

func NewTrainerService(trainerRepo repository.TrainerRepository) TrainerService {
	return &trainerService{trainerRepo: trainerRepo}
}

func (s *trainerService) SearchTrainers(opts repository.TrainerSearchOptions) ([]*model.TrainerProfile, int64, error) {
	return s.trainerRepo.List(opts)
}

func (s *trainerService) GetTrainer(id uint) (*model.TrainerProfile, error) {
	profile, err := s.trainerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *trainerService) GetOwnProfile(userID uint) (*model.TrainerProfile, error) {
	profile, err := s.trainerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *trainerService) UpdateOwnProfile(userID uint, req TrainerUpdateRequest) (*model.TrainerProfile, error) {
	profile, err := s.trainerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, ErrNegativeHourlyRate
		}
		profile.HourlyRate = *req.HourlyRate
	}
	if req.Specializations != nil {
		profile.Specializations = req.Specializations
	}
	if req.Certifications != nil {
		profile.Certifications = req.Certifications
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}

	if err := s.trainerRepo.Update(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// SetAcceptingClients toggles availability. Deliberately independent of the
// Verified flag: an unverified trainer may still open or close their books.
func (s *trainerService) SetAcceptingClients(userID uint, accepting bool) (*model.TrainerProfile, error) {
	profile, err := s.trainerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	if profile.IsAcceptingClients == accepting {
		return profile, nil
	}

	profile.IsAcceptingClients = accepting
	if err := s.trainerRepo.Update(profile); err != nil {
		return nil, err
	}

	logger.Info("Trainer availability changed", map[string]interface{}{
		"trainer_profile_id":   profile.ID,
		"is_accepting_clients": accepting,
	})

	return profile, nil
}
