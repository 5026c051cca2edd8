package repository

import (
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"gorm.io/gorm"
)

// WorkoutSearchOptions filters upcoming workout sessions
type WorkoutSearchOptions struct {
	Location string
	Type     model.WorkoutType
	After    time.Time
	Limit    int
	Offset   int
}

type WorkoutRepository interface {
	Create(workout *model.Workout) error
	FindByID(id uint) (*model.Workout, error)
	List(opts WorkoutSearchOptions) ([]*model.Workout, int64, error)
	ListByParticipant(userID uint) ([]*model.Workout, error)
	CountParticipants(workoutID uint) (int64, error)
	IsParticipant(workoutID, userID uint) (bool, error)
	AddParticipant(participant *model.WorkoutParticipant) error
	RemoveParticipant(workoutID, userID uint) error
	FindDueForReminder(from, until time.Time) ([]*model.Workout, error)
	MarkReminderSent(workoutID uint) error
}

type workoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

// Create inserts the workout and its host as the first participant in one
// transaction.
func (r *workoutRepository) Create(workout *model.Workout) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workout).Error; err != nil {
			return err
		}
		host := &model.WorkoutParticipant{
			WorkoutID: workout.ID,
			UserID:    workout.HostID,
		}
		return tx.Create(host).Error
	})
}

func (r *workoutRepository) FindByID(id uint) (*model.Workout, error) {
	var workout model.Workout
	err := r.db.
		Preload("Host").
		Preload("Participants").
		Preload("Participants.User").
		First(&workout, id).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *workoutRepository) List(opts WorkoutSearchOptions) ([]*model.Workout, int64, error) {
	query := r.db.Model(&model.Workout{})

	if !opts.After.IsZero() {
		query = query.Where("scheduled_at >= ?", opts.After)
	}
	if opts.Location != "" {
		query = query.Where("location LIKE ?", "%"+opts.Location+"%")
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var workouts []*model.Workout
	err := query.Preload("Host").
		Order("scheduled_at ASC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&workouts).Error
	if err != nil {
		return nil, 0, err
	}

	return workouts, total, nil
}

func (r *workoutRepository) ListByParticipant(userID uint) ([]*model.Workout, error) {
	var workouts []*model.Workout
	err := r.db.
		Joins("JOIN workout_participants ON workout_participants.workout_id = workouts.id").
		Where("workout_participants.user_id = ?", userID).
		Preload("Host").
		Order("scheduled_at ASC").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) CountParticipants(workoutID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.WorkoutParticipant{}).
		Where("workout_id = ?", workoutID).
		Count(&count).Error
	return count, err
}

func (r *workoutRepository) IsParticipant(workoutID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.WorkoutParticipant{}).
		Where("workout_id = ? AND user_id = ?", workoutID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *workoutRepository) AddParticipant(participant *model.WorkoutParticipant) error {
	return r.db.Create(participant).Error
}

func (r *workoutRepository) RemoveParticipant(workoutID, userID uint) error {
	result := r.db.
		Where("workout_id = ? AND user_id = ?", workoutID, userID).
		Delete(&model.WorkoutParticipant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindDueForReminder returns workouts scheduled inside the window that have
// not been reminded yet.
func (r *workoutRepository) FindDueForReminder(from, until time.Time) ([]*model.Workout, error) {
	var workouts []*model.Workout
	err := r.db.
		Where("scheduled_at BETWEEN ? AND ?", from, until).
		Where("reminder_sent = ?", false).
		Preload("Participants").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) MarkReminderSent(workoutID uint) error {
	return r.db.Model(&model.Workout{}).
		Where("id = ?", workoutID).
		Update("reminder_sent", true).Error
}
