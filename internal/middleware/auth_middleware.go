package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
	"github.com/yigit/eduadmin/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "roleType"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// Swagger UI sometimes sends the token as a query parameter
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Authentication required").
				WithInner("Authorization header missing"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Authentication required").
				WithInner("Invalid token format"))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, models.RoleType(claims.Role))

		c.Next()
	}
}

// RolesRequired lets the request through only when the caller holds one of roles
func (m *AuthMiddleware) RolesRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Authentication required"))
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.NewForbiddenError("You don't have sufficient permissions for this operation"))
	}
}

// SelfOrRolesRequired lets a caller through when the :param path segment is their own user id,
// or when they hold one of roles
func (m *AuthMiddleware) SelfOrRolesRequired(param string, roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := CurrentRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		userID, ok := CurrentUserID(c)
		if id, err := strconv.ParseInt(c.Param(param), 10, 64); ok && err == nil && id == userID {
			c.Next()
			return
		}
		HandleAPIError(c, apperrors.NewForbiddenError("You can only access your own records"))
	}
}

// CurrentUserID returns the id of the authenticated caller
func CurrentUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// CurrentRole returns the role of the authenticated caller
func CurrentRole(c *gin.Context) (models.RoleType, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.RoleType)
	return role, ok
}
