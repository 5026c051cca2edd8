package model

import (
	"time"

	"gorm.io/gorm"
)

// VerificationStatus values for gym business profiles
const (
	VerificationStatusPending  = "pending"  // awaiting review
	VerificationStatusApproved = "approved" // payments enabled, publicly listed
	VerificationStatusDeclined = "declined" // rejected by an admin
)

// DeclineReason values. A decline must carry exactly one of these.
const (
	DeclineReasonIncompleteInformation     = "incomplete_information"
	DeclineReasonInvalidBusiness           = "invalid_business"
	DeclineReasonPolicyViolation           = "policy_violation"
	DeclineReasonDuplicateApplication      = "duplicate_application"
	DeclineReasonInsufficientDocumentation = "insufficient_documentation"
	DeclineReasonLocationRestrictions      = "location_restrictions"
	DeclineReasonOther                     = "other"
)

var declineReasons = map[string]bool{
	DeclineReasonIncompleteInformation:     true,
	DeclineReasonInvalidBusiness:           true,
	DeclineReasonPolicyViolation:           true,
	DeclineReasonDuplicateApplication:      true,
	DeclineReasonInsufficientDocumentation: true,
	DeclineReasonLocationRestrictions:      true,
	DeclineReasonOther:                     true,
}

// IsValidDeclineReason reports whether reason is in the closed set
func IsValidDeclineReason(reason string) bool {
	return declineReasons[reason]
}

// GymAccount is the business profile owned by a gym_owner user. Created
// atomically with the owning user at signup; verification transitions only
// through admin approve/decline actions.
type GymAccount struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	// Business details
	BusinessName  string `gorm:"type:varchar(200);not null" json:"business_name"`
	BusinessEmail string `gorm:"type:varchar(200);not null" json:"business_email"`
	Address       string `gorm:"type:text;not null" json:"address"`
	Description   string `gorm:"type:text" json:"description"`
	DocumentURL   string `gorm:"type:text" json:"document_url,omitempty"` // uploaded business document

	// Verification state
	VerificationStatus string     `gorm:"type:varchar(20);default:'pending';index" json:"verification_status"`
	VerificationNotes  string     `gorm:"type:text" json:"verification_notes,omitempty"`
	DeclineReason      string     `gorm:"type:varchar(50)" json:"decline_reason,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy         *uint      `json:"reviewed_by,omitempty"` // admin user ID

	// Derived: true iff VerificationStatus == approved
	PaymentEnabled bool `gorm:"default:false;not null" json:"payment_enabled"`

	// Optimistic concurrency guard for verification transitions
	Version int `gorm:"default:0;not null" json:"-"`
}

func (GymAccount) TableName() string {
	return "gym_accounts"
}
