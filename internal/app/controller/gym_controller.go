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

type GymController struct {
	gymService service.GymService
}

func NewGymController(gymService service.GymService) *GymController {
	return &GymController{gymService: gymService}
}

type UpdateGymRequest struct {
	BusinessName  string `json:"business_name"`
	BusinessEmail string `json:"business_email"`
	Address       string `json:"address"`
	Description   string `json:"description"`
	DocumentURL   string `json:"document_url"`
}

// Search lists approved gyms for the public directory
// GET /api/v1/gyms
func (ctrl *GymController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	gyms, total, err := ctrl.gymService.SearchGyms(repository.GymSearchOptions{
		Location: c.Query("location"),
		Query:    c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		log.Error("Failed to search gyms", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search gyms")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gyms":  gyms,
		"total": total,
	})
}

// Get returns one approved gym
// GET /api/v1/gyms/:id
func (ctrl *GymController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid gym ID")
		return
	}

	gym, err := ctrl.gymService.GetGym(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrGymAccountNotFound) {
			apperrors.NotFound(c, apperrors.GymNotFound, "Gym not found")
			return
		}
		log.Error("Failed to get gym", err, map[string]interface{}{
			"gym_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get gym")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gym": gym,
	})
}

// GetOwn returns the caller's gym business profile in any verification state
// GET /api/v1/gyms/me
func (ctrl *GymController) GetOwn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	gym, err := ctrl.gymService.GetOwnGym(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotGymOwner) {
			apperrors.Forbidden(c, "This account does not own a gym")
			return
		}
		log.Error("Failed to get own gym", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get gym")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gym": gym,
	})
}

// UpdateOwn updates the caller's gym business details. Verification state
// never changes through this endpoint.
// PUT /api/v1/gyms/me
func (ctrl *GymController) UpdateOwn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	gym, err := ctrl.gymService.UpdateOwnGym(userID, service.GymUpdateRequest{
		BusinessName:  req.BusinessName,
		BusinessEmail: req.BusinessEmail,
		Address:       req.Address,
		Description:   req.Description,
		DocumentURL:   req.DocumentURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotGymOwner) {
			apperrors.Forbidden(c, "This account does not own a gym")
			return
		}
		log.Error("Failed to update gym", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update gym")
		return
	}

	log.Info("Gym profile updated", map[string]interface{}{
		"gym_account_id": gym.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Gym profile updated successfully",
		"gym":     gym,
	})
}
