package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
)

type WorkoutController struct {
	workoutService service.WorkoutService
}

func NewWorkoutController(workoutService service.WorkoutService) *WorkoutController {
	return &WorkoutController{workoutService: workoutService}
}

type CreateWorkoutRequest struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	Location        string    `json:"location" binding:"required"`
	GymName         string    `json:"gym_name"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxParticipants int       `json:"max_participants"`
}

// Create schedules a workout session hosted by the caller
// POST /api/v1/workouts
func (ctrl *WorkoutController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	workout, err := ctrl.workoutService.Create(userID, service.CreateWorkoutRequest{
		Title:           req.Title,
		Type:            model.WorkoutType(req.Type),
		Description:     req.Description,
		Location:        req.Location,
		GymName:         req.GymName,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		if errors.Is(err, service.ErrWorkoutInPast) {
			apperrors.BadRequest(c, apperrors.WorkoutInPast, "The workout must be scheduled in the future")
			return
		}
		log.Error("Failed to create workout", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create workout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Workout created successfully",
		"workout": workout,
	})
}

// Search lists upcoming workouts
// GET /api/v1/workouts
func (ctrl *WorkoutController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	workouts, total, err := ctrl.workoutService.Search(repository.WorkoutSearchOptions{
		Location: c.Query("location"),
		Type:     model.WorkoutType(c.Query("type")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		log.Error("Failed to search workouts", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search workouts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workouts": workouts,
		"total":    total,
	})
}

// Get returns one workout with its participants
// GET /api/v1/workouts/:id
func (ctrl *WorkoutController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid workout ID")
		return
	}

	workout, err := ctrl.workoutService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			apperrors.NotFound(c, apperrors.WorkoutNotFound, "Workout not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get workout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workout": workout,
	})
}

// ListMine lists workouts the caller hosts or joined
// GET /api/v1/workouts/me
func (ctrl *WorkoutController) ListMine(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	workouts, err := ctrl.workoutService.ListMine(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list workouts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workouts": workouts,
	})
}

// Join adds the caller to a workout
// POST /api/v1/workouts/:id/join
func (ctrl *WorkoutController) Join(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid workout ID")
		return
	}

	if err := ctrl.workoutService.Join(uint(id), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			apperrors.NotFound(c, apperrors.WorkoutNotFound, "Workout not found")
		case errors.Is(err, service.ErrWorkoutFull):
			apperrors.Conflict(c, apperrors.WorkoutFull, "This workout is already full")
		case errors.Is(err, service.ErrWorkoutAlreadyJoined):
			apperrors.Conflict(c, apperrors.WorkoutAlreadyJoined, "You have already joined this workout")
		case errors.Is(err, service.ErrWorkoutInPast):
			apperrors.BadRequest(c, apperrors.WorkoutInPast, "This workout has already started")
		default:
			log.Error("Failed to join workout", err, map[string]interface{}{
				"workout_id": id,
				"user_id":    userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "join workout")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Joined workout successfully",
	})
}

// Leave removes the caller from a workout
// POST /api/v1/workouts/:id/leave
func (ctrl *WorkoutController) Leave(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid workout ID")
		return
	}

	if err := ctrl.workoutService.Leave(uint(id), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			apperrors.NotFound(c, apperrors.WorkoutNotFound, "Workout not found")
		case errors.Is(err, service.ErrWorkoutNotJoined):
			apperrors.BadRequest(c, apperrors.WorkoutNotJoined, "You have not joined this workout")
		case errors.Is(err, service.ErrHostCannotLeave):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The host cannot leave their own workout")
		default:
			log.Error("Failed to leave workout", err, map[string]interface{}{
				"workout_id": id,
				"user_id":    userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "leave workout")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Left workout successfully",
	})
}
