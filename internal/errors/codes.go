package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // no permission for the action
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin only
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Gym accounts (GYM_) ====================
	GymNotFound              = "GYM_NOT_FOUND"
	GymNotApproved           = "GYM_NOT_APPROVED"
	GymAlreadyOwned          = "GYM_ALREADY_OWNED"
	GymVerificationPending   = "GYM_VERIFICATION_PENDING"
	GymVerificationDeclined  = "GYM_VERIFICATION_DECLINED"
	GymAlreadyVerified       = "GYM_ALREADY_VERIFIED"
	GymVerificationConflict  = "GYM_VERIFICATION_CONFLICT"
	GymDeclineReasonRequired = "GYM_DECLINE_REASON_REQUIRED"
	GymDeclineReasonInvalid  = "GYM_DECLINE_REASON_INVALID"

	// ==================== Trainers (TRAINER_) ====================
	TrainerNotFound    = "TRAINER_NOT_FOUND"
	TrainerInvalidRate = "TRAINER_INVALID_RATE"
	TrainerNotVerified = "TRAINER_NOT_VERIFIED"

	// ==================== Workouts (WORKOUT_) ====================
	WorkoutNotFound      = "WORKOUT_NOT_FOUND"
	WorkoutFull          = "WORKOUT_FULL"
	WorkoutAlreadyJoined = "WORKOUT_ALREADY_JOINED"
	WorkoutNotJoined     = "WORKOUT_NOT_JOINED"
	WorkoutInPast        = "WORKOUT_IN_PAST"

	// ==================== Chat (CHAT_) ====================
	ChatRoomNotFound      = "CHAT_ROOM_NOT_FOUND"
	ChatMessageNotFound   = "CHAT_MESSAGE_NOT_FOUND"
	ChatSelfRoomForbidden = "CHAT_SELF_ROOM_FORBIDDEN"
	ChatNotParticipant    = "CHAT_NOT_PARTICIPANT"

	// ==================== Notifications (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
