package model

import (
	"time"

	"gorm.io/gorm"
)

// AccountType is the kind of platform participant, orthogonal to UserRole.
// Set at signup and immutable afterwards; there is no migration path between
// account types.
type AccountType string

const (
	AccountTypeStandard        AccountType = "standard"
	AccountTypeGymOwner        AccountType = "gym_owner"
	AccountTypePersonalTrainer AccountType = "personal_trainer"
)

// IsValidAccountType reports whether the account type is a known variant
func IsValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeStandard, AccountTypeGymOwner, AccountTypePersonalTrainer:
		return true
	}
	return false
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Nickname     string         `gorm:"uniqueIndex;not null" json:"nickname"`
	ProfileImage string         `json:"profile_image"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	AccountType  AccountType    `gorm:"type:varchar(20);default:'standard';index" json:"account_type"`

	// Profile completion: Location and HomeGym are the mandatory fields
	Location        string `json:"location"`
	HomeGym         string `json:"home_gym"`
	ProfileComplete bool   `gorm:"default:false" json:"profile_complete"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Business sub-records, one-to-one, present only for the matching
	// account type
	GymAccount     *GymAccount     `gorm:"foreignKey:UserID" json:"gym_account,omitempty"`
	TrainerProfile *TrainerProfile `gorm:"foreignKey:UserID" json:"trainer_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}
