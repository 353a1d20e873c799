package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/middleware"
)

// parseID reads the :id path parameter. On failure the 400 is already written.
func parseID(ctx *gin.Context, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondBadRequest(ctx, "Invalid "+entity+" ID", entity+" ID must be a valid number")
		return 0, false
	}
	return id, true
}

// optionalIntQuery returns nil when name is absent. On a malformed value the 400 is already written.
func optionalIntQuery(ctx *gin.Context, name string) (*int, bool) {
	raw, ok := ctx.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		middleware.RespondBadRequest(ctx, "Invalid query parameter", name+" must be a valid number")
		return nil, false
	}
	return &v, true
}

// requiredQuery returns the value of name, writing a 400 when it is missing.
func requiredQuery(ctx *gin.Context, name string) (string, bool) {
	v, ok := ctx.GetQuery(name)
	if !ok {
		middleware.RespondBadRequest(ctx, "Missing query parameter", name+" is required")
		return "", false
	}
	return v, true
}
