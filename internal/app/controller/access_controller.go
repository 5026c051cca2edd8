package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
)

// AccessController exposes the routing decision engine to the frontend.
// The frontend sends the requirements of the route it wants to enter and
// renders according to the decision.
type AccessController struct {
	accessService service.AccessService
	authService   service.AuthService
}

func NewAccessController(accessService service.AccessService, authService service.AuthService) *AccessController {
	return &AccessController{
		accessService: accessService,
		authService:   authService,
	}
}

type DecideRequest struct {
	RequiresAuth            bool   `json:"requires_auth"`
	RequiresCompleteProfile bool   `json:"requires_complete_profile"`
	RequiredRole            string `json:"required_role"`
	RequiredAccountType     string `json:"required_account_type"`
}

// Decide evaluates a navigation request for the caller
// POST /api/v1/access/decide
//
// Uses OptionalAuthenticate: an anonymous caller gets decisions for a
// signed-out visitor. The session is always resolved on the server, so the
// indeterminate outcome never appears here; it exists for clients that
// evaluate routes while their session check is still in flight.
func (ctrl *AccessController) Decide(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	var user *model.User
	if userID, exists := middleware.GetUserID(c); exists {
		u, err := ctrl.authService.GetUserByID(userID)
		if err != nil {
			// Stale token for a deleted user degrades to a signed-out
			// decision rather than an error
			log.Warn("Access decision requested for unknown user", map[string]interface{}{
				"user_id": userID,
			})
		} else {
			user = u
		}
	}

	decision := ctrl.accessService.Decide(true, user, service.RouteRequirements{
		RequiresAuth:            req.RequiresAuth,
		RequiresCompleteProfile: req.RequiresCompleteProfile,
		RequiredRole:            model.UserRole(req.RequiredRole),
		RequiredAccountType:     model.AccountType(req.RequiredAccountType),
	})

	c.JSON(http.StatusOK, gin.H{
		"decision": decision,
	})
}

// Dashboard returns the canonical dashboard path for the caller's account
// type
// GET /api/v1/access/dashboard
func (ctrl *AccessController) Dashboard(c *gin.Context) {
	accountType, exists := middleware.GetUserAccountType(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard": ctrl.accessService.CanonicalDashboard(accountType),
	})
}

// Permissions returns the caller's role and its permission set so the
// frontend can hide affordances the user cannot use
// GET /api/v1/access/permissions
func (ctrl *AccessController) Permissions(c *gin.Context) {
	role, exists := middleware.GetUserRole(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":        role,
		"permissions": model.PermissionsForRole(role),
	})
}
