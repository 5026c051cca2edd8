package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
)

type AuthController struct {
	authService   service.AuthService
	refreshExpiry time.Duration
}

func NewAuthController(authService service.AuthService, refreshExpiry time.Duration) *AuthController {
	return &AuthController{
		authService:   authService,
		refreshExpiry: refreshExpiry,
	}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"account_type" binding:"required,oneof=standard gym_owner personal_trainer"`

	// Required when account_type is gym_owner
	BusinessName  string `json:"business_name"`
	BusinessEmail string `json:"business_email"`
	Address       string `json:"address"`

	// Optional trainer fields when account_type is personal_trainer
	HourlyRate      float64  `json:"hourly_rate"`
	Specializations []string `json:"specializations"`
	Certifications  []string `json:"certifications"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type CompleteProfileRequest struct {
	Location string `json:"location" binding:"required"`
	HomeGym  string `json:"home_gym" binding:"required"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"` // S3 URL from upload API
}

func userResponse(user *model.User) gin.H {
	resp := gin.H{
		"id":               user.ID,
		"email":            user.Email,
		"name":             user.Name,
		"nickname":         user.Nickname,
		"profile_image":    user.ProfileImage,
		"role":             user.Role,
		"account_type":     user.AccountType,
		"location":         user.Location,
		"home_gym":         user.HomeGym,
		"profile_complete": user.ProfileComplete,
	}
	if user.GymAccount != nil {
		resp["gym_account"] = user.GymAccount
	}
	if user.TrainerProfile != nil {
		resp["trainer_profile"] = user.TrainerProfile
	}
	return resp
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	var business *service.BusinessSignupInfo
	accountType := model.AccountType(req.AccountType)
	if accountType == model.AccountTypeGymOwner || accountType == model.AccountTypePersonalTrainer {
		business = &service.BusinessSignupInfo{
			BusinessName:    req.BusinessName,
			BusinessEmail:   req.BusinessEmail,
			Address:         req.Address,
			HourlyRate:      req.HourlyRate,
			Specializations: req.Specializations,
			Certifications:  req.Certifications,
		}
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, accountType, business)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email address is already in use")
			return
		}
		if errors.Is(err, service.ErrInvalidAccountType) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown account type")
			return
		}
		if errors.Is(err, service.ErrBusinessInfoMissing) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Business details are required for this account type")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id":      user.ID,
		"account_type": user.AccountType,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Email or password is incorrect")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Logout revokes the refresh token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken, ctrl.refreshExpiry); err != nil {
		// Logout always succeeds from the user's perspective
		log.Error("Failed to revoke token during logout", err, nil)
	}

	if userID, exists := middleware.GetUserID(c); exists {
		log.Info("User logged out", map[string]interface{}{
			"user_id": userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to get user information", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// CompleteProfile records the onboarding fields and unlocks profile-gated
// routes
// PUT /api/v1/auth/me/profile
func (ctrl *AuthController) CompleteProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	user, err := ctrl.authService.CompleteProfile(userID, req.Location, req.HomeGym)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		if errors.Is(err, service.ErrProfileFieldsMissing) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Location and home gym are required")
			return
		}
		log.Error("Failed to complete profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	log.Info("Profile setup completed", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile completed successfully",
		"user":    userResponse(user),
	})
}

// UpdateMe updates current user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.ProfileImage)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    userResponse(user),
	})
}
