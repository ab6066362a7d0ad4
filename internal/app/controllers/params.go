package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduadmin/internal/middleware"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
)

// pathID parses the :id segment; on failure it writes a 400 and returns false
func pathID(ctx *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid "+what+" ID").
			WithInner(what+" ID must be a positive number"))
		return 0, false
	}
	return id, true
}

// callerID returns the authenticated user id; on failure it writes a 401 and returns false
func callerID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Authentication required"))
		return 0, false
	}
	return userID, true
}
