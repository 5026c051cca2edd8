package service

import (
	"errors"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrWorkoutFull          = errors.New("workout has no open spots")
	ErrWorkoutAlreadyJoined = errors.New("already joined this workout")
	ErrWorkoutNotJoined     = errors.New("not a participant of this workout")
	ErrWorkoutInPast        = errors.New("workout is scheduled in the past")
	ErrHostCannotLeave      = errors.New("the host cannot leave their own workout")
)

// CreateWorkoutRequest carries the fields for a new scheduled session
type CreateWorkoutRequest struct {
	Title           string
	Type            model.WorkoutType
	Description     string
	Location        string
	GymName         string
	ScheduledAt     time.Time
	DurationMinutes int
	MaxParticipants int
}

// WorkoutNotifier tells interested users about workout activity.
// Best-effort, like the verification notifier.
type WorkoutNotifier interface {
	NotifyWorkoutJoined(hostID, joinerID, workoutID uint, title string) error
}

type WorkoutService interface {
	Create(hostID uint, req CreateWorkoutRequest) (*model.Workout, error)
	Get(id uint) (*model.Workout, error)
	Search(opts repository.WorkoutSearchOptions) ([]*model.Workout, int64, error)
	ListMine(userID uint) ([]*model.Workout, error)
	Join(workoutID, userID uint) error
	Leave(workoutID, userID uint) error
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	notifier    WorkoutNotifier
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, notifier WorkoutNotifier) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		notifier:    notifier,
	}
}

func (s *workoutService) Create(hostID uint, req CreateWorkoutRequest) (*model.Workout, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, ErrWorkoutInPast
	}
	if req.MaxParticipants < 2 {
		req.MaxParticipants = 2
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}
	if req.Type == "" {
		req.Type = model.WorkoutTypeOther
	}

	workout := &model.Workout{
		HostID:          hostID,
		Title:           req.Title,
		Type:            req.Type,
		Description:     req.Description,
		Location:        req.Location,
		GymName:         req.GymName,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		MaxParticipants: req.MaxParticipants,
	}

	if err := s.workoutRepo.Create(workout); err != nil {
		logger.Error("Failed to create workout", err, map[string]interface{}{
			"host_id": hostID,
		})
		return nil, err
	}

	logger.Info("Workout created", map[string]interface{}{
		"workout_id":   workout.ID,
		"host_id":      hostID,
		"scheduled_at": workout.ScheduledAt,
	})

	return workout, nil
}

func (s *workoutService) Get(id uint) (*model.Workout, error) {
	workout, err := s.workoutRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) Search(opts repository.WorkoutSearchOptions) ([]*model.Workout, int64, error) {
	if opts.After.IsZero() {
		opts.After = time.Now()
	}
	return s.workoutRepo.List(opts)
}

func (s *workoutService) ListMine(userID uint) ([]*model.Workout, error) {
	return s.workoutRepo.ListByParticipant(userID)
}

func (s *workoutService) Join(workoutID, userID uint) error {
	workout, err := s.workoutRepo.FindByID(workoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	if workout.ScheduledAt.Before(time.Now()) {
		return ErrWorkoutInPast
	}

	joined, err := s.workoutRepo.IsParticipant(workoutID, userID)
	if err != nil {
		return err
	}
	if joined {
		return ErrWorkoutAlreadyJoined
	}

	count, err := s.workoutRepo.CountParticipants(workoutID)
	if err != nil {
		return err
	}
	if count >= int64(workout.MaxParticipants) {
		return ErrWorkoutFull
	}

	participant := &model.WorkoutParticipant{
		WorkoutID: workoutID,
		UserID:    userID,
	}
	if err := s.workoutRepo.AddParticipant(participant); err != nil {
		return err
	}

	logger.Info("User joined workout", map[string]interface{}{
		"workout_id": workoutID,
		"user_id":    userID,
	})

	if err := s.notifier.NotifyWorkoutJoined(workout.HostID, userID, workoutID, workout.Title); err != nil {
		logger.Error("Failed to notify host about workout join", err, map[string]interface{}{
			"workout_id": workoutID,
		})
	}

	return nil
}

func (s *workoutService) Leave(workoutID, userID uint) error {
	workout, err := s.workoutRepo.FindByID(workoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	if workout.HostID == userID {
		return ErrHostCannotLeave
	}

	if err := s.workoutRepo.RemoveParticipant(workoutID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotJoined
		}
		return err
	}

	logger.Info("User left workout", map[string]interface{}{
		"workout_id": workoutID,
		"user_id":    userID,
	})

	return nil
}
