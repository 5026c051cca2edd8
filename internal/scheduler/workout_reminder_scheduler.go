package scheduler

import (
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Look-ahead window for reminders. A workout gets one reminder when it is
// about an hour away.
const reminderWindow = time.Hour

// WorkoutReminderScheduler sends an in-app reminder to every participant of
// a workout starting soon
type WorkoutReminderScheduler struct {
	cron        *cron.Cron
	workoutRepo repository.WorkoutRepository
	notifier    service.NotificationService
}

func NewWorkoutReminderScheduler(workoutRepo repository.WorkoutRepository, notifier service.NotificationService) *WorkoutReminderScheduler {
	return &WorkoutReminderScheduler{
		cron:        cron.New(),
		workoutRepo: workoutRepo,
		notifier:    notifier,
	}
}

// Start registers the cron job. Runs every 5 minutes.
func (s *WorkoutReminderScheduler) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for workout reminders", err)
		return err
	}

	s.cron.Start()
	logger.Info("Workout reminder scheduler started (every 5 minutes)", nil)

	return nil
}

// RunOnce processes one reminder sweep. Exported so it can be driven
// directly in tests.
func (s *WorkoutReminderScheduler) RunOnce() {
	now := time.Now()
	workouts, err := s.workoutRepo.FindDueForReminder(now, now.Add(reminderWindow))
	if err != nil {
		logger.Error("Failed to load workouts due for reminder", err)
		return
	}

	for _, workout := range workouts {
		for _, participant := range workout.Participants {
			if err := s.notifier.NotifyWorkoutReminder(participant.UserID, workout.ID, workout.Title); err != nil {
				logger.Error("Failed to send workout reminder", err, map[string]interface{}{
					"workout_id": workout.ID,
					"user_id":    participant.UserID,
				})
			}
		}

		// Mark even if some notifications failed, so we never double-remind
		if err := s.workoutRepo.MarkReminderSent(workout.ID); err != nil {
			logger.Error("Failed to mark workout reminder as sent", err, map[string]interface{}{
				"workout_id": workout.ID,
			})
		}
	}

	if len(workouts) > 0 {
		logger.Info("Workout reminders sent", map[string]interface{}{
			"workouts": len(workouts),
		})
	}
}

// Stop halts the scheduler
func (s *WorkoutReminderScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Workout reminder scheduler stopped", nil)
}
