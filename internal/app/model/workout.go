package model

import (
	"time"

	"gorm.io/gorm"
)

// WorkoutType categorizes a scheduled session
type WorkoutType string

const (
	WorkoutTypeStrength WorkoutType = "strength"
	WorkoutTypeCardio   WorkoutType = "cardio"
	WorkoutTypeHIIT     WorkoutType = "hiit"
	WorkoutTypeYoga     WorkoutType = "yoga"
	WorkoutTypeCrossfit WorkoutType = "crossfit"
	WorkoutTypeOther    WorkoutType = "other"
)

// Workout is a scheduled session other members can join to find a partner
type Workout struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HostID uint  `gorm:"not null;index" json:"host_id"`
	Host   *User `gorm:"foreignKey:HostID" json:"host,omitempty"`

	Title       string      `gorm:"type:varchar(200);not null" json:"title"`
	Type        WorkoutType `gorm:"type:varchar(20);default:'other';index" json:"type"`
	Description string      `gorm:"type:text" json:"description"`
	Location    string      `gorm:"type:varchar(200);not null;index" json:"location"`
	GymName     string      `gorm:"type:varchar(200)" json:"gym_name"`

	ScheduledAt     time.Time `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	MaxParticipants int       `gorm:"default:2;check:max_participants >= 2" json:"max_participants"`

	// Reminder scheduler marks sessions it has already notified
	ReminderSent bool `gorm:"default:false;index" json:"-"`

	Participants []WorkoutParticipant `gorm:"foreignKey:WorkoutID" json:"participants,omitempty"`
}

func (Workout) TableName() string {
	return "workouts"
}

// WorkoutParticipant links a user to a workout they joined. The host is a
// participant too, inserted when the workout is created.
type WorkoutParticipant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	WorkoutID uint    `gorm:"not null;uniqueIndex:idx_workout_user,priority:1" json:"workout_id"`
	Workout   Workout `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	UserID uint  `gorm:"not null;uniqueIndex:idx_workout_user,priority:2;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (WorkoutParticipant) TableName() string {
	return "workout_participants"
}
