package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/service"
)

type UserService interface {
	Dashboard(ctx context.Context, userID uint) (domain.UserDashboard, error)
	Activities(ctx context.Context, userID uint) ([]domain.Activity, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleDashboard godoc
// @Summary      Get the volunteer dashboard
// @Tags         users
// @Produce      json
// @Success      200      {object}   domain.UserDashboard
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me/dashboard [get]
// @Security     BearerAuth
func (h *UserHandler) HandleDashboard(ctx *gin.Context) {
	userID := principalID(ctx)

	dashboard, err := h.svc.Dashboard(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}

// HandleActivities godoc
// @Summary      Get the most recent activities of the volunteer
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.Activity
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me/activities [get]
// @Security     BearerAuth
func (h *UserHandler) HandleActivities(ctx *gin.Context) {
	activities, err := h.svc.Activities(ctx.Request.Context(), principalID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleActivities -> h.svc.Activities -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, activities)
}

// HandleLeaderboard godoc
// @Summary      Top volunteers by eco points
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.LeaderboardEntry
// @Failure      500      {object}   response.Err
// @Router       /leaderboard [get]
func (h *UserHandler) HandleLeaderboard(ctx *gin.Context) {
	entries, err := h.svc.Leaderboard(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleLeaderboard -> h.svc.Leaderboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
