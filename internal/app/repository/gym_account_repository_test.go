package repository

import (
	"testing"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGymRepoTest(t *testing.T) (GymAccountRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewGymAccountRepository(testDB), testDB
}

func createGym(t *testing.T, testDB *gorm.DB, email, businessName, address, status string) *model.GymAccount {
	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Owner",
		Nickname:     email,
		AccountType:  model.AccountTypeGymOwner,
	}
	require.NoError(t, testDB.Create(&user).Error)

	account := model.GymAccount{
		UserID:             user.ID,
		BusinessName:       businessName,
		BusinessEmail:      email,
		Address:            address,
		VerificationStatus: status,
		PaymentEnabled:     status == model.VerificationStatusApproved,
	}
	require.NoError(t, testDB.Create(&account).Error)
	return &account
}

func TestGymAccountRepository_UpdateVerification_VersionGuard(t *testing.T) {
	repo, testDB := setupGymRepoTest(t)
	account := createGym(t, testDB, "a@example.com", "Iron Temple", "42 Lift St", model.VerificationStatusPending)

	// Two admins read the same version
	first, err := repo.FindByID(account.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(account.ID)
	require.NoError(t, err)

	now := time.Now()
	adminA, adminB := uint(1), uint(2)

	first.VerificationStatus = model.VerificationStatusApproved
	first.ReviewedAt = &now
	first.ReviewedBy = &adminA
	first.PaymentEnabled = true
	require.NoError(t, repo.UpdateVerification(first, first.Version))
	assert.Equal(t, 1, first.Version)

	// The slower admin's write must not clobber the first
	second.VerificationStatus = model.VerificationStatusDeclined
	second.DeclineReason = model.DeclineReasonOther
	second.ReviewedAt = &now
	second.ReviewedBy = &adminB
	err = repo.UpdateVerification(second, second.Version)
	assert.ErrorIs(t, err, ErrStaleVersion)

	reloaded, err := repo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusApproved, reloaded.VerificationStatus)
	assert.Equal(t, adminA, *reloaded.ReviewedBy)
	assert.Equal(t, 1, reloaded.Version)
}

func TestGymAccountRepository_UpdateVerification_SequentialWrites(t *testing.T) {
	repo, testDB := setupGymRepoTest(t)
	account := createGym(t, testDB, "b@example.com", "Steel Works", "7 Barbell Ave", model.VerificationStatusPending)

	now := time.Now()
	admin := uint(1)

	account.VerificationStatus = model.VerificationStatusApproved
	account.ReviewedAt = &now
	account.ReviewedBy = &admin
	account.PaymentEnabled = true
	require.NoError(t, repo.UpdateVerification(account, account.Version))

	// A write against the refreshed version succeeds
	account.VerificationNotes = "second review pass"
	require.NoError(t, repo.UpdateVerification(account, account.Version))
	assert.Equal(t, 2, account.Version)
}

func TestGymAccountRepository_ListApproved(t *testing.T) {
	repo, testDB := setupGymRepoTest(t)

	createGym(t, testDB, "c@example.com", "Approved Gym", "Downtown", model.VerificationStatusApproved)
	createGym(t, testDB, "d@example.com", "Pending Gym", "Downtown", model.VerificationStatusPending)
	createGym(t, testDB, "e@example.com", "Declined Gym", "Downtown", model.VerificationStatusDeclined)

	gyms, total, err := repo.ListApproved(GymSearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, gyms, 1)
	assert.Equal(t, "Approved Gym", gyms[0].BusinessName)

	// Location filter
	gyms, _, err = repo.ListApproved(GymSearchOptions{Location: "Uptown"})
	require.NoError(t, err)
	assert.Empty(t, gyms)

	// Name filter
	gyms, _, err = repo.ListApproved(GymSearchOptions{Query: "Approved"})
	require.NoError(t, err)
	assert.Len(t, gyms, 1)
}

func TestGymAccountRepository_ListByStatus(t *testing.T) {
	repo, testDB := setupGymRepoTest(t)

	createGym(t, testDB, "f@example.com", "First", "X", model.VerificationStatusPending)
	createGym(t, testDB, "g@example.com", "Second", "Y", model.VerificationStatusPending)

	pending, err := repo.ListByStatus(model.VerificationStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	approved, err := repo.ListByStatus(model.VerificationStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)

	all, err := repo.ListByStatus("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGymAccountRepository_FindByUserID(t *testing.T) {
	repo, testDB := setupGymRepoTest(t)
	account := createGym(t, testDB, "h@example.com", "Mine", "Z", model.VerificationStatusPending)

	found, err := repo.FindByUserID(account.UserID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = repo.FindByUserID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
