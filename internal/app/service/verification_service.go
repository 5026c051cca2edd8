package service

import (
	"context"
	"errors"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNotAuthorized         = errors.New("caller lacks the required permission")
	ErrGymAccountNotFound    = errors.New("gym account not found")
	ErrTrainerNotFound       = errors.New("trainer profile not found")
	ErrDeclineReasonRequired = errors.New("a decline reason is required")
	ErrInvalidDeclineReason  = errors.New("decline reason is not in the allowed set")
	ErrVerificationConflict  = errors.New("verification state changed concurrently or transition not allowed")
)

// VerificationNotifier delivers verification results to the affected user.
// Calls are best-effort: failures are logged and never roll back the state
// transition that triggered them.
type VerificationNotifier interface {
	NotifyVerificationResult(userID uint, approved bool, businessName, reason string) error
	NotifyTrainerVerified(userID uint) error
}

// PaymentGateway toggles payment capability on the external payment
// platform. Idempotent and best-effort.
type PaymentGateway interface {
	SetPaymentCapability(ctx context.Context, businessID uint, enabled bool) error
}

// VerificationService drives the gym/trainer verification state machine.
// Gym accounts move pending -> approved | declined; both outcomes are
// terminal, and repeating the same transition is an idempotent no-op.
type VerificationService interface {
	ApproveGym(actorRole model.UserRole, actorID, gymAccountID uint, notes string) (*model.GymAccount, error)
	DeclineGym(actorRole model.UserRole, actorID, gymAccountID uint, reason, notes string) (*model.GymAccount, error)
	VerifyTrainer(actorRole model.UserRole, actorID, trainerProfileID uint) (*model.TrainerProfile, error)
	GetGymVerification(gymAccountID uint) (*model.GymAccount, error)
	ListGymVerifications(status string) ([]*model.GymAccount, error)
}

type verificationService struct {
	gymRepo     repository.GymAccountRepository
	trainerRepo repository.TrainerRepository
	notifier    VerificationNotifier
	payments    PaymentGateway
}

func NewVerificationService(
	gymRepo repository.GymAccountRepository,
	trainerRepo repository.TrainerRepository,
	notifier VerificationNotifier,
	payments PaymentGateway,
) VerificationService {
	return &verificationService{
		gymRepo:     gymRepo,
		trainerRepo: trainerRepo,
		notifier:    notifier,
		payments:    payments,
	}
}

// ApproveGym transitions a pending gym account to approved and enables its
// payment capability. Approving an already-approved account refreshes the
// notes and timestamp but triggers no side effects.
func (s *verificationService) ApproveGym(actorRole model.UserRole, actorID, gymAccountID uint, notes string) (*model.GymAccount, error) {
	if !model.HasPermission(actorRole, model.PermissionManageVerifications) {
		logger.Warn("Approve attempted without permission", map[string]interface{}{
			"actor_id":       actorID,
			"actor_role":     actorRole,
			"gym_account_id": gymAccountID,
		})
		return nil, ErrNotAuthorized
	}

	account, err := s.gymRepo.FindByID(gymAccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymAccountNotFound
		}
		return nil, err
	}

	switch account.VerificationStatus {
	case model.VerificationStatusDeclined:
		// Declined is terminal; reapplication is not modeled.
		return nil, ErrVerificationConflict
	case model.VerificationStatusApproved:
		return s.refreshReview(account, notes, actorID)
	}

	now := time.Now()
	account.VerificationStatus = model.VerificationStatusApproved
	account.VerificationNotes = notes
	account.DeclineReason = ""
	account.ReviewedAt = &now
	account.ReviewedBy = &actorID
	account.PaymentEnabled = true

	if err := s.gymRepo.UpdateVerification(account, account.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			logger.Warn("Approve lost a concurrent verification race", map[string]interface{}{
				"gym_account_id": gymAccountID,
			})
			return nil, ErrVerificationConflict
		}
		return nil, err
	}

	logger.Info("Gym account approved", map[string]interface{}{
		"gym_account_id": account.ID,
		"owner_id":       account.UserID,
		"reviewed_by":    actorID,
	})

	s.dispatchGymSideEffects(account, true)

	return account, nil
}

// DeclineGym transitions a pending gym account to declined. The reason is
// mandatory and must come from the closed set.
func (s *verificationService) DeclineGym(actorRole model.UserRole, actorID, gymAccountID uint, reason, notes string) (*model.GymAccount, error) {
	if !model.HasPermission(actorRole, model.PermissionManageVerifications) {
		logger.Warn("Decline attempted without permission", map[string]interface{}{
			"actor_id":       actorID,
			"actor_role":     actorRole,
			"gym_account_id": gymAccountID,
		})
		return nil, ErrNotAuthorized
	}

	if reason == "" {
		return nil, ErrDeclineReasonRequired
	}
	if !model.IsValidDeclineReason(reason) {
		return nil, ErrInvalidDeclineReason
	}

	account, err := s.gymRepo.FindByID(gymAccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymAccountNotFound
		}
		return nil, err
	}

	switch account.VerificationStatus {
	case model.VerificationStatusApproved:
		// A decline landing after an approve must not clobber it.
		return nil, ErrVerificationConflict
	case model.VerificationStatusDeclined:
		return account, nil
	}

	now := time.Now()
	account.VerificationStatus = model.VerificationStatusDeclined
	account.VerificationNotes = notes
	account.DeclineReason = reason
	account.ReviewedAt = &now
	account.ReviewedBy = &actorID
	account.PaymentEnabled = false

	if err := s.gymRepo.UpdateVerification(account, account.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			logger.Warn("Decline lost a concurrent verification race", map[string]interface{}{
				"gym_account_id": gymAccountID,
			})
			return nil, ErrVerificationConflict
		}
		return nil, err
	}

	logger.Info("Gym account declined", map[string]interface{}{
		"gym_account_id": account.ID,
		"owner_id":       account.UserID,
		"reason":         reason,
		"reviewed_by":    actorID,
	})

	s.dispatchGymSideEffects(account, false)

	return account, nil
}

// refreshReview handles the idempotent re-approve: same terminal state, only
// the review metadata is refreshed, and no collaborator is signalled.
func (s *verificationService) refreshReview(account *model.GymAccount, notes string, actorID uint) (*model.GymAccount, error) {
	now := time.Now()
	account.VerificationNotes = notes
	account.ReviewedAt = &now
	account.ReviewedBy = &actorID

	if err := s.gymRepo.UpdateVerification(account, account.Version); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrVerificationConflict
		}
		return nil, err
	}

	logger.Debug("Gym approval refreshed", map[string]interface{}{
		"gym_account_id": account.ID,
	})
	return account, nil
}

// dispatchGymSideEffects signals the notification and payment collaborators
// after a transition has committed. Fire and forget: a failure here is
// logged and swallowed, the state transition is the source of truth.
func (s *verificationService) dispatchGymSideEffects(account *model.GymAccount, approved bool) {
	if err := s.notifier.NotifyVerificationResult(account.UserID, approved, account.BusinessName, account.DeclineReason); err != nil {
		logger.Error("Failed to send verification notification", err, map[string]interface{}{
			"gym_account_id": account.ID,
			"owner_id":       account.UserID,
		})
	}

	// The directory and payment gate both key off verificationStatus; the
	// platform call only mirrors it outward.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.payments.SetPaymentCapability(ctx, account.ID, approved); err != nil {
		logger.Error("Failed to update payment capability", err, map[string]interface{}{
			"gym_account_id": account.ID,
			"enabled":        approved,
		})
	}
}

// VerifyTrainer marks a trainer profile as verified. Idempotent; the
// trainer's accepting-clients flag is untouched.
func (s *verificationService) VerifyTrainer(actorRole model.UserRole, actorID, trainerProfileID uint) (*model.TrainerProfile, error) {
	if !model.HasPermission(actorRole, model.PermissionManageVerifications) {
		return nil, ErrNotAuthorized
	}

	profile, err := s.trainerRepo.FindByID(trainerProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	if profile.Verified {
		return profile, nil
	}

	now := time.Now()
	profile.Verified = true
	profile.VerifiedAt = &now
	profile.VerifiedBy = &actorID

	if err := s.trainerRepo.Update(profile); err != nil {
		return nil, err
	}

	logger.Info("Trainer profile verified", map[string]interface{}{
		"trainer_profile_id": profile.ID,
		"user_id":            profile.UserID,
		"verified_by":        actorID,
	})

	if err := s.notifier.NotifyTrainerVerified(profile.UserID); err != nil {
		logger.Error("Failed to send trainer verification notification", err, map[string]interface{}{
			"trainer_profile_id": profile.ID,
		})
	}

	return profile, nil
}

func (s *verificationService) GetGymVerification(gymAccountID uint) (*model.GymAccount, error) {
	account, err := s.gymRepo.FindByID(gymAccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *verificationService) ListGymVerifications(status string) ([]*model.GymAccount, error) {
	return s.gymRepo.ListByStatus(status)
}
