package repository

import (
	"errors"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrStaleVersion is returned when a version-guarded update matched no rows,
// meaning another admin changed the record after it was read.
var ErrStaleVersion = errors.New("gym account was modified concurrently")

// GymSearchOptions filters the public gym directory
type GymSearchOptions struct {
	Location string
	Query    string // matches business name
	Limit    int
	Offset   int
}

type GymAccountRepository interface {
	FindByID(id uint) (*model.GymAccount, error)
	FindByUserID(userID uint) (*model.GymAccount, error)
	ListByStatus(status string) ([]*model.GymAccount, error)
	ListApproved(opts GymSearchOptions) ([]*model.GymAccount, int64, error)
	Update(account *model.GymAccount) error
	UpdateVerification(account *model.GymAccount, expectedVersion int) error
}

type gymAccountRepository struct {
	db *gorm.DB
}

func NewGymAccountRepository(db *gorm.DB) GymAccountRepository {
	return &gymAccountRepository{db: db}
}

func (r *gymAccountRepository) FindByID(id uint) (*model.GymAccount, error) {
	var account model.GymAccount
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gymAccountRepository) FindByUserID(userID uint) (*model.GymAccount, error) {
	var account model.GymAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gymAccountRepository) ListByStatus(status string) ([]*model.GymAccount, error) {
	var accounts []*model.GymAccount
	query := r.db.Preload("User").Order("created_at ASC")
	if status != "" {
		query = query.Where("verification_status = ?", status)
	}
	if err := query.Find(&accounts).Error; err != nil {
		logger.Error("Failed to list gym accounts by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return accounts, nil
}

// ListApproved returns only approved gyms. Unapproved gyms never appear in
// the public directory.
func (r *gymAccountRepository) ListApproved(opts GymSearchOptions) ([]*model.GymAccount, int64, error) {
	query := r.db.Model(&model.GymAccount{}).
		Where("verification_status = ?", model.VerificationStatusApproved)

	if opts.Location != "" {
		query = query.Where("address LIKE ?", "%"+opts.Location+"%")
	}
	if opts.Query != "" {
		query = query.Where("business_name LIKE ?", "%"+opts.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var accounts []*model.GymAccount
	err := query.Order("business_name ASC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *gymAccountRepository) Update(account *model.GymAccount) error {
	if err := r.db.Save(account).Error; err != nil {
		logger.Error("Failed to update gym account in database", err, map[string]interface{}{
			"gym_account_id": account.ID,
		})
		return err
	}
	return nil
}

// UpdateVerification writes a verification transition guarded by the version
// column. A concurrent transition bumps the version first, so this update
// matches no rows and the caller gets ErrStaleVersion instead of silently
// overwriting the newer state.
func (r *gymAccountRepository) UpdateVerification(account *model.GymAccount, expectedVersion int) error {
	result := r.db.Model(&model.GymAccount{}).
		Where("id = ? AND version = ?", account.ID, expectedVersion).
		Updates(map[string]interface{}{
			"verification_status": account.VerificationStatus,
			"verification_notes":  account.VerificationNotes,
			"decline_reason":      account.DeclineReason,
			"reviewed_at":         account.ReviewedAt,
			"reviewed_by":         account.ReviewedBy,
			"payment_enabled":     account.PaymentEnabled,
			"version":             expectedVersion + 1,
		})
	if result.Error != nil {
		logger.Error("Failed to update gym verification in database", result.Error, map[string]interface{}{
			"gym_account_id": account.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	account.Version = expectedVersion + 1
	return nil
}
