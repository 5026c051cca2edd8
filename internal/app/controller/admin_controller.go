package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
)

type AdminController struct {
	adminService        service.AdminService
	verificationService service.VerificationService
}

func NewAdminController(adminService service.AdminService, verificationService service.VerificationService) *AdminController {
	return &AdminController{
		adminService:        adminService,
		verificationService: verificationService,
	}
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type ApproveGymRequest struct {
	Notes string `json:"notes"`
}

type DeclineGymRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// actor pulls the caller's identity out of the context. Routes under the
// admin group always run after Authenticate, so a missing identity is a
// wiring bug, not a user error.
func actor(c *gin.Context) (model.UserRole, uint, bool) {
	role, ok := middleware.GetUserRole(c)
	if !ok {
		apperrors.Unauthorized(c, "Sign in required")
		return "", 0, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Sign in required")
		return "", 0, false
	}
	return role, userID, true
}

// SetRole assigns a role to a user
// PUT /api/v1/admin/users/:id/role
func (ctrl *AdminController) SetRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actorRole, actorID, ok := actor(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	err = ctrl.adminService.SetRole(actorRole, actorID, uint(targetID), model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only administrators can manage roles")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown role")
		case errors.Is(err, service.ErrCannotChangeSelf):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "You cannot change your own role")
		case errors.Is(err, service.ErrTargetNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("Failed to set role", err, map[string]interface{}{
				"target_user_id": targetID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update role")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully",
	})
}

// ListUsers lists platform users for the admin console
// GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	actorRole, _, ok := actor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := ctrl.adminService.ListUsers(actorRole, repository.UserListOptions{
		Role:        model.UserRole(c.Query("role")),
		AccountType: model.AccountType(c.Query("account_type")),
		Query:       c.Query("q"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			apperrors.Forbidden(c, "You do not have access to the admin console")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// Stats returns dashboard counters
// GET /api/v1/admin/stats
func (ctrl *AdminController) Stats(c *gin.Context) {
	actorRole, _, ok := actor(c)
	if !ok {
		return
	}

	stats, err := ctrl.adminService.Stats(actorRole)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			apperrors.Forbidden(c, "You do not have access to the admin console")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// ListVerifications lists gym verification requests, optionally by status
// GET /api/v1/admin/verifications
func (ctrl *AdminController) ListVerifications(c *gin.Context) {
	accounts, err := ctrl.verificationService.ListGymVerifications(c.Query("status"))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list verifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verifications": accounts,
	})
}

// ApproveGym approves a pending gym verification
// POST /api/v1/admin/verifications/:id/approve
func (ctrl *AdminController) ApproveGym(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actorRole, actorID, ok := actor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid gym account ID")
		return
	}

	var req ApproveGymRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	account, err := ctrl.verificationService.ApproveGym(actorRole, actorID, uint(id), req.Notes)
	if err != nil {
		ctrl.respondVerificationError(c, log, err, uint(id))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gym verification approved",
		"gym":     account,
	})
}

// DeclineGym declines a pending gym verification with a reason
// POST /api/v1/admin/verifications/:id/decline
func (ctrl *AdminController) DeclineGym(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actorRole, actorID, ok := actor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid gym account ID")
		return
	}

	var req DeclineGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.GymDeclineReasonRequired, "A decline reason is required")
		return
	}

	account, err := ctrl.verificationService.DeclineGym(actorRole, actorID, uint(id), req.Reason, req.Notes)
	if err != nil {
		ctrl.respondVerificationError(c, log, err, uint(id))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gym verification declined",
		"gym":     account,
	})
}

// VerifyTrainer marks a trainer's certifications as verified
// POST /api/v1/admin/trainers/:id/verify
func (ctrl *AdminController) VerifyTrainer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actorRole, actorID, ok := actor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid trainer profile ID")
		return
	}

	profile, err := ctrl.verificationService.VerifyTrainer(actorRole, actorID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only administrators can manage verifications")
		case errors.Is(err, service.ErrTrainerNotFound):
			apperrors.NotFound(c, apperrors.TrainerNotFound, "Trainer not found")
		default:
			log.Error("Failed to verify trainer", err, map[string]interface{}{
				"trainer_profile_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verify trainer")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trainer verified",
		"trainer": profile,
	})
}

// ExportVerificationReport streams the verification report workbook
// GET /api/v1/admin/verifications/export
func (ctrl *AdminController) ExportVerificationReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actorRole, _, ok := actor(c)
	if !ok {
		return
	}

	f, err := ctrl.adminService.ExportVerificationReport(actorRole)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			apperrors.Forbidden(c, "You do not have access to report exports")
			return
		}
		log.Error("Failed to export verification report", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export report")
		return
	}

	filename := fmt.Sprintf("verifications-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write report to response", err)
	}
}

func (ctrl *AdminController) respondVerificationError(c *gin.Context, log *logger.Logger, err error, gymAccountID uint) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only administrators can manage verifications")
	case errors.Is(err, service.ErrGymAccountNotFound):
		apperrors.NotFound(c, apperrors.GymNotFound, "Gym account not found")
	case errors.Is(err, service.ErrDeclineReasonRequired):
		apperrors.BadRequest(c, apperrors.GymDeclineReasonRequired, "A decline reason is required")
	case errors.Is(err, service.ErrInvalidDeclineReason):
		apperrors.BadRequest(c, apperrors.GymDeclineReasonInvalid, "Unknown decline reason")
	case errors.Is(err, service.ErrVerificationConflict):
		apperrors.Conflict(c, apperrors.GymVerificationConflict, "This verification was already resolved with the opposite outcome")
	case errors.Is(err, repository.ErrStaleVersion):
		apperrors.Conflict(c, apperrors.ResourceConflict, "Another administrator just updated this verification. Please reload and try again")
	default:
		log.Error("Verification action failed", err, map[string]interface{}{
			"gym_account_id": gymAccountID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update verification")
	}
}
