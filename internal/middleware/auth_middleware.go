package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/pkg/redis"
	"github.com/gymbuddy/gymbuddy-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey          = "user_id"
	UserEmailKey       = "user_email"
	UserRoleKey        = "user_role"
	UserAccountTypeKey = "user_account_type"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		// Try to get token from Authorization header first
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header format")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// WebSocket clients pass the token as a query parameter
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "Sign in required")
				c.Abort()
				return
			}
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session expired, please sign in again")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		// Tokens invalidated by logout are refused until they expire
		blacklisted, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token blacklist check failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if blacklisted {
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, model.UserRole(claims.Role))
		c.Set(UserAccountTypeKey, model.AccountType(claims.AccountType))

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates JWT token if present (optional)
// - If token is present and valid: sets user info in context
// - If token is missing or invalid: continues without user info
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			// Invalid format - continue as guest
			c.Next()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			// Invalid or expired token - continue as guest
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, model.UserRole(claims.Role))
		c.Set(UserAccountTypeKey, model.AccountType(claims.AccountType))

		c.Next()
	}
}

// RequireRole checks that the user's role is at least minRole. Roles are
// ordered user < moderator < admin, so an admin passes every gate a
// moderator passes.
func (m *AuthMiddleware) RequireRole(minRole model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		userRole, exists := GetUserRole(c)
		if !exists {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Role information not found")
			c.Abort()
			return
		}

		if !model.HasRole(userRole, minRole) {
			userID, _ := GetUserID(c)
			log.Warn("Insufficient role", map[string]interface{}{
				"user_id":       userID,
				"user_role":     userRole,
				"required_role": minRole,
				"path":          c.Request.URL.Path,
			})
			errors.Forbidden(c, "You do not have access to this resource")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission checks a single named permission. Unknown roles hold no
// permissions, so the check fails closed.
func (m *AuthMiddleware) RequirePermission(permission model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		userRole, exists := GetUserRole(c)
		if !exists {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Role information not found")
			c.Abort()
			return
		}

		if !model.HasPermission(userRole, permission) {
			userID, _ := GetUserID(c)
			log.Warn("Missing permission", map[string]interface{}{
				"user_id":    userID,
				"user_role":  userRole,
				"permission": permission,
				"path":       c.Request.URL.Path,
			})
			errors.Forbidden(c, "You do not have access to this resource")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAccountType restricts a route to the given account types
func (m *AuthMiddleware) RequireAccountType(types ...model.AccountType) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountType, exists := GetUserAccountType(c)
		if !exists {
			errors.Forbidden(c, "Account type information not found")
			c.Abort()
			return
		}

		for _, t := range types {
			if accountType == t {
				c.Next()
				return
			}
		}

		errors.Forbidden(c, "This area is not available for your account type")
		c.Abort()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}

// GetUserAccountType extracts the account type from context
func GetUserAccountType(c *gin.Context) (model.AccountType, bool) {
	accountType, exists := c.Get(UserAccountTypeKey)
	if !exists {
		return "", false
	}
	return accountType.(model.AccountType), true
}
