package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
)

type TrainerController struct {
	trainerService service.TrainerService
}

func NewTrainerController(trainerService service.TrainerService) *TrainerController {
	return &TrainerController{trainerService: trainerService}
}

type UpdateTrainerProfileRequest struct {
	Specializations []string `json:"specializations"`
	Certifications  []string `json:"certifications"`
	HourlyRate      *float64 `json:"hourly_rate"`
	Bio             string   `json:"bio"`
}

type SetAcceptingClientsRequest struct {
	Accepting *bool `json:"accepting" binding:"required"`
}

// Search lists trainers for the public directory
// GET /api/v1/trainers
func (ctrl *TrainerController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	maxRate, _ := strconv.ParseFloat(c.DefaultQuery("max_rate", "0"), 64)

	trainers, total, err := ctrl.trainerService.SearchTrainers(repository.TrainerSearchOptions{
		AcceptingOnly: c.Query("accepting") == "true",
		VerifiedOnly:  c.Query("verified") == "true",
		MaxHourlyRate: maxRate,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		log.Error("Failed to search trainers", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search trainers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainers": trainers,
		"total":    total,
	})
}

// Get returns one trainer profile
// GET /api/v1/trainers/:id
func (ctrl *TrainerController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid trainer ID")
		return
	}

	trainer, err := ctrl.trainerService.GetTrainer(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			apperrors.NotFound(c, apperrors.TrainerNotFound, "Trainer not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get trainer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainer": trainer,
	})
}

// GetOwn returns the caller's trainer profile
// GET /api/v1/trainers/me
func (ctrl *TrainerController) GetOwn(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	trainer, err := ctrl.trainerService.GetOwnProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			apperrors.Forbidden(c, "This account does not have a trainer profile")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get trainer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainer": trainer,
	})
}

// UpdateOwn updates the caller's trainer profile
// PUT /api/v1/trainers/me
func (ctrl *TrainerController) UpdateOwn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req UpdateTrainerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	trainer, err := ctrl.trainerService.UpdateOwnProfile(userID, service.TrainerUpdateRequest{
		Specializations: req.Specializations,
		Certifications:  req.Certifications,
		HourlyRate:      req.HourlyRate,
		Bio:             req.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			apperrors.Forbidden(c, "This account does not have a trainer profile")
			return
		}
		if errors.Is(err, service.ErrNegativeHourlyRate) {
			apperrors.BadRequest(c, apperrors.TrainerInvalidRate, "Hourly rate must be zero or greater")
			return
		}
		log.Error("Failed to update trainer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update trainer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trainer profile updated successfully",
		"trainer": trainer,
	})
}

// SetAccepting toggles whether the caller is taking new clients
// PUT /api/v1/trainers/me/accepting
func (ctrl *TrainerController) SetAccepting(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req SetAcceptingClientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	trainer, err := ctrl.trainerService.SetAcceptingClients(userID, *req.Accepting)
	if err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			apperrors.Forbidden(c, "This account does not have a trainer profile")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update trainer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainer": trainer,
	})
}
