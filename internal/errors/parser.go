package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a raw error into a code and a user facing message.
// Sensitive driver details are hidden; the message should let the user fix
// the problem when they can.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr)
	}

	// 3. Network errors from external collaborators
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	// 4. Default internal error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already in use",
		}
	}

	if strings.Contains(errLower, "gym_accounts") && strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    GymAlreadyOwned,
			Message: "This account already has a gym business profile",
		}
	}

	if strings.Contains(errLower, "trainer_profiles") && strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This account already has a trainer profile",
		}
	}

	if strings.Contains(errLower, "workout_participants") {
		return ErrorInfo{
			Code:    WorkoutAlreadyJoined,
			Message: "You have already joined this workout",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Related records exist, so this cannot be deleted",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "That user does not exist",
		}
	}
	if strings.Contains(errLower, "gym_account_id") || strings.Contains(errLower, "fk_gym_accounts") {
		return ErrorInfo{
			Code:    GymNotFound,
			Message: "That gym does not exist",
		}
	}
	if strings.Contains(errLower, "workout_id") || strings.Contains(errLower, "fk_workouts") {
		return ErrorInfo{
			Code:    WorkoutNotFound,
			Message: "That workout does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "business_name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Business name is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func parseCheckConstraintError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "hourly_rate") {
		return ErrorInfo{
			Code:    TrainerInvalidRate,
			Message: "Hourly rate must be zero or greater",
		}
	}

	if strings.Contains(errLower, "max_participants") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Participant limit is out of range",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "One of the values is invalid",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "gym") {
		return "Gym not found"
	}
	if strings.Contains(contextLower, "trainer") {
		return "Trainer not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "workout") {
		return "Workout not found"
	}
	if strings.Contains(contextLower, "chat") {
		return "Chat room not found"
	}
	if strings.Contains(contextLower, "notification") {
		return "Notification not found"
	}

	return "The requested record could not be found"
}

// ParseAndRespond parses the error and writes the standard error response
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "register") {
		return "Could not create the record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Could not save the changes. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Could not delete the record. Please try again later"
	}

	return "Something went wrong. Please try again later"
}
