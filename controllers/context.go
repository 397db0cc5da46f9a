package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/studyvolt/studyvolt/middleware"
)

// getUserID reads the authenticated user ID the auth middleware stored.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
