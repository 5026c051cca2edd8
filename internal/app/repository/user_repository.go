package repository

import (
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserListOptions filters the admin user listing
type UserListOptions struct {
	Role        model.UserRole
	AccountType model.AccountType
	Query       string // matches email or nickname
	Limit       int
	Offset      int
}

type UserRepository interface {
	Create(user *model.User) error
	CreateWithGymAccount(user *model.User, account *model.GymAccount) error
	CreateWithTrainerProfile(user *model.User, profile *model.TrainerProfile) error
	FindByID(id uint) (*model.User, error)
	FindByIDWithBusiness(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	List(opts UserListOptions) ([]*model.User, int64, error)
	Update(user *model.User) error
	UpdateRole(id uint, role model.UserRole) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

// CreateWithGymAccount creates the user and its gym business profile in one
// transaction, so a gym_owner never exists without its sub-record.
func (r *userRepository) CreateWithGymAccount(user *model.User, account *model.GymAccount) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		account.UserID = user.ID
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		user.GymAccount = account
		return nil
	})
}

// CreateWithTrainerProfile creates the user and its trainer profile in one
// transaction.
func (r *userRepository) CreateWithTrainerProfile(user *model.User, profile *model.TrainerProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.TrainerProfile = profile
		return nil
	})
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithBusiness loads the user plus whichever business sub-record the
// account type owns.
func (r *userRepository) FindByIDWithBusiness(id uint) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("GymAccount").
		Preload("TrainerProfile").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(opts UserListOptions) ([]*model.User, int64, error) {
	query := r.db.Model(&model.User{})

	if opts.Role != "" {
		query = query.Where("role = ?", opts.Role)
	}
	if opts.AccountType != "" {
		query = query.Where("account_type = ?", opts.AccountType)
	}
	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		query = query.Where("email LIKE ? OR nickname LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var users []*model.User
	err := query.Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) UpdateRole(id uint, role model.UserRole) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		logger.Error("Failed to update user role in database", result.Error, map[string]interface{}{
			"user_id": id,
			"role":    role,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
