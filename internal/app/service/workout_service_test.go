package service

import (
	"testing"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeWorkoutNotifier records join notifications
type fakeWorkoutNotifier struct {
	joins []fakeJoinCall
	err   error
}

type fakeJoinCall struct {
	hostID    uint
	joinerID  uint
	workoutID uint
	title     string
}

func (f *fakeWorkoutNotifier) NotifyWorkoutJoined(hostID, joinerID, workoutID uint, title string) error {
	f.joins = append(f.joins, fakeJoinCall{hostID, joinerID, workoutID, title})
	return f.err
}

func setupWorkoutServiceTest(t *testing.T) (WorkoutService, *fakeWorkoutNotifier, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	notifier := &fakeWorkoutNotifier{}
	svc := NewWorkoutService(repository.NewWorkoutRepository(testDB), notifier)
	return svc, notifier, testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         email,
		Nickname:     email,
		AccountType:  model.AccountTypeStandard,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return &user
}

func TestWorkoutService_Create(t *testing.T) {
	svc, _, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")

	workout, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:       "Morning Squats",
		Type:        model.WorkoutTypeStrength,
		Location:    "Brooklyn",
		GymName:     "Iron Temple",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// Defaults
	assert.Equal(t, 2, workout.MaxParticipants)
	assert.Equal(t, 60, workout.DurationMinutes)

	// The host is the first participant
	loaded, err := svc.Get(workout.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Participants, 1)
	assert.Equal(t, host.ID, loaded.Participants[0].UserID)

	mine, err := svc.ListMine(host.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestWorkoutService_Create_Validation(t *testing.T) {
	svc, _, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")

	_, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:       "Yesterday",
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrWorkoutInPast)

	// Type defaults to other
	workout, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:       "Untyped",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, model.WorkoutTypeOther, workout.Type)
}

func TestWorkoutService_Join(t *testing.T) {
	svc, notifier, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")
	joiner := createTestUser(t, testDB, "joiner@example.com")

	workout, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:           "Partner Bench",
		ScheduledAt:     time.Now().Add(2 * time.Hour),
		MaxParticipants: 2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Join(workout.ID, joiner.ID))

	// The host hears about the join
	require.Len(t, notifier.joins, 1)
	assert.Equal(t, host.ID, notifier.joins[0].hostID)
	assert.Equal(t, joiner.ID, notifier.joins[0].joinerID)
	assert.Equal(t, "Partner Bench", notifier.joins[0].title)

	// Double join rejected
	assert.ErrorIs(t, svc.Join(workout.ID, joiner.ID), ErrWorkoutAlreadyJoined)

	// Workout is now at capacity (host + joiner)
	third := createTestUser(t, testDB, "third@example.com")
	assert.ErrorIs(t, svc.Join(workout.ID, third.ID), ErrWorkoutFull)

	assert.ErrorIs(t, svc.Join(99999, joiner.ID), ErrWorkoutNotFound)
}

func TestWorkoutService_Join_PastWorkout(t *testing.T) {
	svc, _, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")
	joiner := createTestUser(t, testDB, "joiner@example.com")

	// Insert directly; Create refuses past schedules
	workout := model.Workout{
		HostID:          host.ID,
		Title:           "Already Over",
		Type:            model.WorkoutTypeOther,
		ScheduledAt:     time.Now().Add(-time.Hour),
		DurationMinutes: 60,
		MaxParticipants: 5,
	}
	require.NoError(t, testDB.Create(&workout).Error)

	assert.ErrorIs(t, svc.Join(workout.ID, joiner.ID), ErrWorkoutInPast)
}

func TestWorkoutService_Leave(t *testing.T) {
	svc, _, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")
	joiner := createTestUser(t, testDB, "joiner@example.com")

	workout, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:           "Leg Day",
		ScheduledAt:     time.Now().Add(2 * time.Hour),
		MaxParticipants: 3,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Join(workout.ID, joiner.ID))

	// The host cannot abandon their own session
	assert.ErrorIs(t, svc.Leave(workout.ID, host.ID), ErrHostCannotLeave)

	require.NoError(t, svc.Leave(workout.ID, joiner.ID))
	assert.ErrorIs(t, svc.Leave(workout.ID, joiner.ID), ErrWorkoutNotJoined)

	// The freed spot can be taken again
	require.NoError(t, svc.Join(workout.ID, joiner.ID))
}

func TestWorkoutService_Search(t *testing.T) {
	svc, _, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")

	_, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:       "Strength AM",
		Type:        model.WorkoutTypeStrength,
		Location:    "Brooklyn",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.Create(host.ID, CreateWorkoutRequest{
		Title:       "Cardio PM",
		Type:        model.WorkoutTypeCardio,
		Location:    "Queens",
		ScheduledAt: time.Now().Add(3 * time.Hour),
	})
	require.NoError(t, err)

	all, total, err := svc.Search(repository.WorkoutSearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	// Soonest first
	assert.Equal(t, "Strength AM", all[0].Title)

	byType, _, err := svc.Search(repository.WorkoutSearchOptions{Type: model.WorkoutTypeCardio})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Cardio PM", byType[0].Title)

	byLocation, _, err := svc.Search(repository.WorkoutSearchOptions{Location: "Brook"})
	require.NoError(t, err)
	assert.Len(t, byLocation, 1)
}

func TestWorkoutService_NotifierFailureDoesNotBlockJoin(t *testing.T) {
	svc, notifier, testDB := setupWorkoutServiceTest(t)
	host := createTestUser(t, testDB, "host@example.com")
	joiner := createTestUser(t, testDB, "joiner@example.com")

	notifier.err = assert.AnError

	workout, err := svc.Create(host.ID, CreateWorkoutRequest{
		Title:       "Quiet Session",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Join(workout.ID, joiner.ID))

	joined, err := svc.ListMine(joiner.ID)
	require.NoError(t, err)
	assert.Len(t, joined, 1)
}
