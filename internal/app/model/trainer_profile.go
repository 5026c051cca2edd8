package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TrainerProfile is the business profile owned by a personal_trainer user.
// IsAcceptingClients is owner-mutable at any time and independent of
// Verified, which only an admin may set.
type TrainerProfile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	Specializations pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"specializations"`
	Certifications  pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"certifications"`
	HourlyRate      float64        `gorm:"check:hourly_rate >= 0" json:"hourly_rate"`
	Bio             string         `gorm:"type:text" json:"bio"`

	IsAcceptingClients bool `gorm:"default:true" json:"is_accepting_clients"`

	Verified   bool       `gorm:"default:false;not null;index" json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	VerifiedBy *uint      `json:"verified_by,omitempty"` // admin user ID
}

func (TrainerProfile) TableName() string {
	return "trainer_profiles"
}
