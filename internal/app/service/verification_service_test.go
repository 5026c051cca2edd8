package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeNotifier records verification notifications instead of delivering them
type fakeNotifier struct {
	verificationCalls []fakeVerificationCall
	trainerCalls      []uint
	err               error
}

type fakeVerificationCall struct {
	userID   uint
	approved bool
	business string
	reason   string
}

func (f *fakeNotifier) NotifyVerificationResult(userID uint, approved bool, businessName, reason string) error {
	f.verificationCalls = append(f.verificationCalls, fakeVerificationCall{userID, approved, businessName, reason})
	return f.err
}

func (f *fakeNotifier) NotifyTrainerVerified(userID uint) error {
	f.trainerCalls = append(f.trainerCalls, userID)
	return f.err
}

// fakePayments records capability toggles
type fakePayments struct {
	calls []fakeCapabilityCall
	err   error
}

type fakeCapabilityCall struct {
	businessID uint
	enabled    bool
}

func (f *fakePayments) SetPaymentCapability(ctx context.Context, businessID uint, enabled bool) error {
	f.calls = append(f.calls, fakeCapabilityCall{businessID, enabled})
	return f.err
}

type verificationFixture struct {
	svc      VerificationService
	gymRepo  repository.GymAccountRepository
	notifier *fakeNotifier
	payments *fakePayments
	db       *gorm.DB
}

func setupVerificationTest(t *testing.T) *verificationFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	gymRepo := repository.NewGymAccountRepository(testDB)
	trainerRepo := repository.NewTrainerRepository(testDB)
	notifier := &fakeNotifier{}
	payments := &fakePayments{}

	return &verificationFixture{
		svc:      NewVerificationService(gymRepo, trainerRepo, notifier, payments),
		gymRepo:  gymRepo,
		notifier: notifier,
		payments: payments,
		db:       testDB,
	}
}

func (f *verificationFixture) createPendingGym(t *testing.T) *model.GymAccount {
	owner := model.User{
		Email:        "owner@example.com",
		PasswordHash: "x",
		Name:         "Gym Owner",
		Nickname:     "owner",
		Role:         model.RoleUser,
		AccountType:  model.AccountTypeGymOwner,
	}
	require.NoError(t, f.db.Create(&owner).Error)

	account := model.GymAccount{
		UserID:             owner.ID,
		BusinessName:       "Iron Temple",
		BusinessEmail:      "biz@irontemple.com",
		Address:            "42 Lift Street",
		VerificationStatus: model.VerificationStatusPending,
	}
	require.NoError(t, f.db.Create(&account).Error)
	return &account
}

func TestVerificationService_ApproveGym(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	approved, err := f.svc.ApproveGym(model.RoleAdmin, 99, account.ID, "docs look good")
	require.NoError(t, err)

	assert.Equal(t, model.VerificationStatusApproved, approved.VerificationStatus)
	assert.True(t, approved.PaymentEnabled)
	assert.Equal(t, "docs look good", approved.VerificationNotes)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, uint(99), *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	// Both collaborators signalled exactly once
	require.Len(t, f.notifier.verificationCalls, 1)
	assert.Equal(t, account.UserID, f.notifier.verificationCalls[0].userID)
	assert.True(t, f.notifier.verificationCalls[0].approved)
	assert.Equal(t, "Iron Temple", f.notifier.verificationCalls[0].business)

	require.Len(t, f.payments.calls, 1)
	assert.Equal(t, account.ID, f.payments.calls[0].businessID)
	assert.True(t, f.payments.calls[0].enabled)
}

func TestVerificationService_ApproveGym_Idempotent(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	_, err := f.svc.ApproveGym(model.RoleAdmin, 99, account.ID, "first pass")
	require.NoError(t, err)

	// Re-approving refreshes the review metadata but fires no side effects
	again, err := f.svc.ApproveGym(model.RoleAdmin, 100, account.ID, "second pass")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusApproved, again.VerificationStatus)
	assert.Equal(t, "second pass", again.VerificationNotes)
	assert.Equal(t, uint(100), *again.ReviewedBy)

	assert.Len(t, f.notifier.verificationCalls, 1)
	assert.Len(t, f.payments.calls, 1)
}

func TestVerificationService_ApproveGym_Authorization(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	for _, role := range []model.UserRole{model.RoleUser, model.RoleModerator, model.UserRole("unknown")} {
		_, err := f.svc.ApproveGym(role, 1, account.ID, "")
		assert.ErrorIs(t, err, ErrNotAuthorized, "role %s must not approve", role)
	}

	// Nothing leaked out of the failed attempts
	assert.Empty(t, f.notifier.verificationCalls)
	assert.Empty(t, f.payments.calls)

	reloaded, err := f.gymRepo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusPending, reloaded.VerificationStatus)
}

func TestVerificationService_ApproveGym_NotFound(t *testing.T) {
	f := setupVerificationTest(t)

	_, err := f.svc.ApproveGym(model.RoleAdmin, 1, 12345, "")
	assert.ErrorIs(t, err, ErrGymAccountNotFound)
}

func TestVerificationService_DeclineGym(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	declined, err := f.svc.DeclineGym(model.RoleAdmin, 7, account.ID, model.DeclineReasonInvalidBusiness, "registry lookup failed")
	require.NoError(t, err)

	assert.Equal(t, model.VerificationStatusDeclined, declined.VerificationStatus)
	assert.Equal(t, model.DeclineReasonInvalidBusiness, declined.DeclineReason)
	assert.False(t, declined.PaymentEnabled)

	require.Len(t, f.notifier.verificationCalls, 1)
	assert.False(t, f.notifier.verificationCalls[0].approved)
	assert.Equal(t, model.DeclineReasonInvalidBusiness, f.notifier.verificationCalls[0].reason)

	require.Len(t, f.payments.calls, 1)
	assert.False(t, f.payments.calls[0].enabled)
}

func TestVerificationService_DeclineGym_ReasonValidation(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	_, err := f.svc.DeclineGym(model.RoleAdmin, 7, account.ID, "", "")
	assert.ErrorIs(t, err, ErrDeclineReasonRequired)

	_, err = f.svc.DeclineGym(model.RoleAdmin, 7, account.ID, "because", "")
	assert.ErrorIs(t, err, ErrInvalidDeclineReason)

	// Validation failures never touch the record
	reloaded, err := f.gymRepo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusPending, reloaded.VerificationStatus)
	assert.Empty(t, f.notifier.verificationCalls)
}

func TestVerificationService_DeclineGym_Idempotent(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	first, err := f.svc.DeclineGym(model.RoleAdmin, 7, account.ID, model.DeclineReasonOther, "")
	require.NoError(t, err)

	// Repeating the decline is a read, not a write
	second, err := f.svc.DeclineGym(model.RoleAdmin, 8, account.ID, model.DeclineReasonInvalidBusiness, "")
	require.NoError(t, err)
	assert.Equal(t, first.DeclineReason, second.DeclineReason)
	assert.Equal(t, *first.ReviewedBy, *second.ReviewedBy)

	assert.Len(t, f.notifier.verificationCalls, 1)
	assert.Len(t, f.payments.calls, 1)
}

func TestVerificationService_OppositeOutcomeConflicts(t *testing.T) {
	f := setupVerificationTest(t)

	t.Run("decline after approve", func(t *testing.T) {
		account := f.createPendingGym(t)
		_, err := f.svc.ApproveGym(model.RoleAdmin, 1, account.ID, "")
		require.NoError(t, err)

		_, err = f.svc.DeclineGym(model.RoleAdmin, 2, account.ID, model.DeclineReasonOther, "")
		assert.ErrorIs(t, err, ErrVerificationConflict)

		reloaded, err := f.gymRepo.FindByID(account.ID)
		require.NoError(t, err)
		assert.Equal(t, model.VerificationStatusApproved, reloaded.VerificationStatus)
		assert.True(t, reloaded.PaymentEnabled)
	})

	t.Run("approve after decline", func(t *testing.T) {
		f2 := setupVerificationTest(t)
		account := f2.createPendingGym(t)
		_, err := f2.svc.DeclineGym(model.RoleAdmin, 1, account.ID, model.DeclineReasonPolicyViolation, "")
		require.NoError(t, err)

		_, err = f2.svc.ApproveGym(model.RoleAdmin, 2, account.ID, "")
		assert.ErrorIs(t, err, ErrVerificationConflict)
	})
}

func TestVerificationService_SideEffectFailureDoesNotRollBack(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	f.notifier.err = errors.New("smtp down")
	f.payments.err = errors.New("gateway down")

	approved, err := f.svc.ApproveGym(model.RoleAdmin, 1, account.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusApproved, approved.VerificationStatus)

	// The transition survives in the database
	reloaded, err := f.gymRepo.FindByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusApproved, reloaded.VerificationStatus)
	assert.True(t, reloaded.PaymentEnabled)
}

func TestVerificationService_VerifyTrainer(t *testing.T) {
	f := setupVerificationTest(t)

	trainer := model.User{
		Email:        "coach@example.com",
		PasswordHash: "x",
		Name:         "Coach",
		Nickname:     "coach",
		Role:         model.RoleUser,
		AccountType:  model.AccountTypePersonalTrainer,
	}
	require.NoError(t, f.db.Create(&trainer).Error)

	profile := model.TrainerProfile{
		UserID:             trainer.ID,
		HourlyRate:         60,
		IsAcceptingClients: false,
	}
	require.NoError(t, f.db.Create(&profile).Error)

	_, err := f.svc.VerifyTrainer(model.RoleModerator, 1, profile.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	verified, err := f.svc.VerifyTrainer(model.RoleAdmin, 9, profile.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, uint(9), *verified.VerifiedBy)
	// Accepting-clients is owner territory, verification leaves it alone
	assert.False(t, verified.IsAcceptingClients)

	require.Len(t, f.notifier.trainerCalls, 1)
	assert.Equal(t, trainer.ID, f.notifier.trainerCalls[0])

	// Re-verifying is a no-op
	_, err = f.svc.VerifyTrainer(model.RoleAdmin, 10, profile.ID)
	require.NoError(t, err)
	assert.Len(t, f.notifier.trainerCalls, 1)

	_, err = f.svc.VerifyTrainer(model.RoleAdmin, 9, 9999)
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestVerificationService_ListGymVerifications(t *testing.T) {
	f := setupVerificationTest(t)
	account := f.createPendingGym(t)

	pending, err := f.svc.ListGymVerifications(model.VerificationStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, account.ID, pending[0].ID)

	approved, err := f.svc.ListGymVerifications(model.VerificationStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)

	all, err := f.svc.ListGymVerifications("")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
