package repository

import (
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"gorm.io/gorm"
)

// TrainerSearchOptions filters the trainer directory
type TrainerSearchOptions struct {
	AcceptingOnly bool
	VerifiedOnly  bool
	MaxHourlyRate float64
	Limit         int
	Offset        int
}

type TrainerRepository interface {
	FindByID(id uint) (*model.TrainerProfile, error)
	FindByUserID(userID uint) (*model.TrainerProfile, error)
	List(opts TrainerSearchOptions) ([]*model.TrainerProfile, int64, error)
	Update(profile *model.TrainerProfile) error
}

type trainerRepository struct {
	db *gorm.DB
}

func NewTrainerRepository(db *gorm.DB) TrainerRepository {
	return &trainerRepository{db: db}
}

func (r *trainerRepository) FindByID(id uint) (*model.TrainerProfile, error) {
	var profile model.TrainerProfile
	if err := r.db.Preload("User").First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *trainerRepository) FindByUserID(userID uint) (*model.TrainerProfile, error) {
	var profile model.TrainerProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns trainer profiles for the directory. Unverified trainers are
// included unless the caller filters them out; directory policy lives in the
// UI, not here.
func (r *trainerRepository) List(opts TrainerSearchOptions) ([]*model.TrainerProfile, int64, error) {
	query := r.db.Model(&model.TrainerProfile{})

	if opts.AcceptingOnly {
		query = query.Where("is_accepting_clients = ?", true)
	}
	if opts.VerifiedOnly {
		query = query.Where("verified = ?", true)
	}
	if opts.MaxHourlyRate > 0 {
		query = query.Where("hourly_rate <= ?", opts.MaxHourlyRate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var profiles []*model.TrainerProfile
	err := query.Preload("User").
		Order("verified DESC, hourly_rate ASC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *trainerRepository) Update(profile *model.TrainerProfile) error {
	return r.db.Save(profile).Error
}
