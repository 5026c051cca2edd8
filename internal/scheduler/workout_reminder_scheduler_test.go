package scheduler

import (
	"testing"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/gymbuddy/gymbuddy-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type schedulerFixture struct {
	scheduler *WorkoutReminderScheduler
	notifier  service.NotificationService
	db        *gorm.DB
}

func setupSchedulerTest(t *testing.T) *schedulerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	workoutRepo := repository.NewWorkoutRepository(testDB)
	notifier := service.NewNotificationService(repository.NewNotificationRepository(testDB), websocket.NewHub())

	return &schedulerFixture{
		scheduler: NewWorkoutReminderScheduler(workoutRepo, notifier),
		notifier:  notifier,
		db:        testDB,
	}
}

func (f *schedulerFixture) createWorkout(t *testing.T, title string, scheduledAt time.Time, participantIDs ...uint) *model.Workout {
	workout := model.Workout{
		HostID:          participantIDs[0],
		Title:           title,
		Type:            model.WorkoutTypeStrength,
		Location:        "Downtown",
		ScheduledAt:     scheduledAt,
		DurationMinutes: 60,
		MaxParticipants: 4,
	}
	require.NoError(t, f.db.Create(&workout).Error)

	for _, userID := range participantIDs {
		require.NoError(t, f.db.Create(&model.WorkoutParticipant{
			WorkoutID: workout.ID,
			UserID:    userID,
		}).Error)
	}
	return &workout
}

func TestWorkoutReminderScheduler_RunOnce(t *testing.T) {
	f := setupSchedulerTest(t)

	soon := f.createWorkout(t, "Morning lift", time.Now().Add(30*time.Minute), 1, 2)
	farOut := f.createWorkout(t, "Evening run", time.Now().Add(3*time.Hour), 3)

	f.scheduler.RunOnce()

	// Every participant of the imminent workout gets a reminder
	for _, userID := range []uint{1, 2} {
		notifications, total, err := f.notifier.List(userID, false, 10, 0)
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, model.NotificationTypeWorkoutReminder, notifications[0].Type)
		assert.Contains(t, notifications[0].Content, "Morning lift")
	}

	// The distant workout is left alone
	_, total, err := f.notifier.List(3, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	var reminded, notReminded model.Workout
	require.NoError(t, f.db.First(&reminded, soon.ID).Error)
	require.NoError(t, f.db.First(&notReminded, farOut.ID).Error)
	assert.True(t, reminded.ReminderSent)
	assert.False(t, notReminded.ReminderSent)
}

func TestWorkoutReminderScheduler_RunOnce_NeverDoubleReminds(t *testing.T) {
	f := setupSchedulerTest(t)

	f.createWorkout(t, "Leg day", time.Now().Add(45*time.Minute), 1)

	f.scheduler.RunOnce()
	f.scheduler.RunOnce()

	_, total, err := f.notifier.List(1, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestWorkoutReminderScheduler_RunOnce_IgnoresPastWorkouts(t *testing.T) {
	f := setupSchedulerTest(t)

	started := f.createWorkout(t, "Already started", time.Now().Add(-10*time.Minute), 1)

	f.scheduler.RunOnce()

	_, total, err := f.notifier.List(1, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	var workout model.Workout
	require.NoError(t, f.db.First(&workout, started.ID).Error)
	assert.False(t, workout.ReminderSent)
}
