package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("unknown role")
	ErrCannotChangeSelf = errors.New("cannot change your own role")
	ErrTargetNotFound   = errors.New("target user not found")
)

// AdminStats summarizes the platform for the admin dashboard
type AdminStats struct {
	TotalUsers       int64 `json:"total_users"`
	PendingGyms      int   `json:"pending_gyms"`
	ApprovedGyms     int   `json:"approved_gyms"`
	DeclinedGyms     int   `json:"declined_gyms"`
	UpcomingWorkouts int64 `json:"upcoming_workouts"`
}

type AdminService interface {
	SetRole(actorRole model.UserRole, actorID, targetID uint, newRole model.UserRole) error
	ListUsers(actorRole model.UserRole, opts repository.UserListOptions) ([]*model.User, int64, error)
	Stats(actorRole model.UserRole) (*AdminStats, error)
	ExportVerificationReport(actorRole model.UserRole) (*excelize.File, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	gymRepo     repository.GymAccountRepository
	workoutRepo repository.WorkoutRepository
}

func NewAdminService(userRepo repository.UserRepository, gymRepo repository.GymAccountRepository, workoutRepo repository.WorkoutRepository) AdminService {
	return &adminService{
		userRepo:    userRepo,
		gymRepo:     gymRepo,
		workoutRepo: workoutRepo,
	}
}

// SetRole assigns a role to a user. Only callers holding the manage_roles
// permission may do this, and nobody can change their own role.
func (s *adminService) SetRole(actorRole model.UserRole, actorID, targetID uint, newRole model.UserRole) error {
	if !model.HasPermission(actorRole, model.PermissionManageRoles) {
		return ErrNotAuthorized
	}
	if !model.IsValidRole(newRole) {
		return ErrInvalidRole
	}
	if actorID == targetID {
		return ErrCannotChangeSelf
	}

	if err := s.userRepo.UpdateRole(targetID, newRole); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}

	logger.Info("User role changed", map[string]interface{}{
		"target_user_id": targetID,
		"new_role":       newRole,
		"changed_by":     actorID,
	})

	return nil
}

func (s *adminService) ListUsers(actorRole model.UserRole, opts repository.UserListOptions) ([]*model.User, int64, error) {
	if !model.HasPermission(actorRole, model.PermissionViewAdminDashboard) {
		return nil, 0, ErrNotAuthorized
	}
	return s.userRepo.List(opts)
}

func (s *adminService) Stats(actorRole model.UserRole) (*AdminStats, error) {
	if !model.HasPermission(actorRole, model.PermissionViewAdminDashboard) {
		return nil, ErrNotAuthorized
	}

	_, totalUsers, err := s.userRepo.List(repository.UserListOptions{Limit: 1})
	if err != nil {
		return nil, err
	}

	pending, err := s.gymRepo.ListByStatus(model.VerificationStatusPending)
	if err != nil {
		return nil, err
	}
	approved, err := s.gymRepo.ListByStatus(model.VerificationStatusApproved)
	if err != nil {
		return nil, err
	}
	declined, err := s.gymRepo.ListByStatus(model.VerificationStatusDeclined)
	if err != nil {
		return nil, err
	}

	_, upcoming, err := s.workoutRepo.List(repository.WorkoutSearchOptions{After: time.Now(), Limit: 1})
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalUsers:       totalUsers,
		PendingGyms:      len(pending),
		ApprovedGyms:     len(approved),
		DeclinedGyms:     len(declined),
		UpcomingWorkouts: upcoming,
	}, nil
}

// ExportVerificationReport builds an XLSX workbook with every gym account
// and its verification state.
func (s *adminService) ExportVerificationReport(actorRole model.UserRole) (*excelize.File, error) {
	if !model.HasPermission(actorRole, model.PermissionExportReports) {
		return nil, ErrNotAuthorized
	}

	accounts, err := s.gymRepo.ListByStatus("")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Verifications"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Business Name", "Owner Email", "Address", "Status", "Decline Reason", "Reviewed At", "Reviewed By", "Payment Enabled", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, account := range accounts {
		ownerEmail := ""
		if account.User != nil {
			ownerEmail = account.User.Email
		}
		reviewedAt := ""
		if account.ReviewedAt != nil {
			reviewedAt = account.ReviewedAt.Format(time.RFC3339)
		}
		reviewedBy := ""
		if account.ReviewedBy != nil {
			reviewedBy = fmt.Sprintf("%d", *account.ReviewedBy)
		}

		values := []interface{}{
			account.ID,
			account.BusinessName,
			ownerEmail,
			account.Address,
			account.VerificationStatus,
			account.DeclineReason,
			reviewedAt,
			reviewedBy,
			account.PaymentEnabled,
			account.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	logger.Info("Verification report exported", map[string]interface{}{
		"rows": len(accounts),
	})

	return f, nil
}
