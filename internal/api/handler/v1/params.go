package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/greenspark-api/internal/api/middleware"
	"github.com/vietanh2810/greenspark-api/internal/domain"
)

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, ctx.Param(name))
	}
	return uint(id), nil
}

// principalID returns the id of the caller. Routes using it sit behind
// Authenticator.Require, so the principal is always present.
func principalID(ctx *gin.Context) uint {
	principal, _ := middleware.PrincipalFromContext(ctx)
	return principal.ID
}

func optionalPrincipal(ctx *gin.Context) *domain.Principal {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		return nil
	}
	return &principal
}
