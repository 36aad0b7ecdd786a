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

type ParticipationService interface {
	Join(ctx context.Context, campaignID, userID uint) (domain.ParticipationResult, error)
	ReportCompletion(ctx context.Context, campaignID, userID uint) (domain.ParticipationResult, error)
	Verify(ctx context.Context, campaignID, userID, organizationID uint) (domain.ParticipationResult, error)
}

type ParticipationHandler struct {
	svc ParticipationService
}

func NewParticipationHandler(svc ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{
		svc: svc,
	}
}

// HandleJoin godoc
// @Summary      Join a campaign
// @Tags         participation
// @Produce      json
// @Param        campaignID   path      int  true  "campaign ID"
// @Success      200      {object}   response.ParticipationResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns/{campaignID}/join [post]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleJoin(ctx *gin.Context) {
	campaignID, err := parseIDParam(ctx, "campaignID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Join(ctx.Request.Context(), campaignID, principalID(ctx))
	if err != nil {
		renderParticipationErr(ctx, campaignID, fmt.Errorf("v1.HandleJoin -> h.svc.Join -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipationResponse(result))
}

// HandleComplete godoc
// @Summary      Report a joined campaign as completed
// @Tags         participation
// @Produce      json
// @Param        campaignID   path      int  true  "campaign ID"
// @Success      200      {object}   response.ParticipationResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns/{campaignID}/complete [post]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleComplete(ctx *gin.Context) {
	campaignID, err := parseIDParam(ctx, "campaignID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.ReportCompletion(ctx.Request.Context(), campaignID, principalID(ctx))
	if err != nil {
		renderParticipationErr(ctx, campaignID, fmt.Errorf("v1.HandleComplete -> h.svc.ReportCompletion -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipationResponse(result))
}

// HandleVerify godoc
// @Summary      Verify a volunteer's completion
// @Tags         participation
// @Produce      json
// @Param        campaignID   path      int  true  "campaign ID"
// @Param        userID       path      int  true  "volunteer ID"
// @Success      200      {object}   response.ParticipationResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns/{campaignID}/volunteers/{userID}/verify [post]
// @Security     BearerAuth
func (h *ParticipationHandler) HandleVerify(ctx *gin.Context) {
	campaignID, err := parseIDParam(ctx, "campaignID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Verify(ctx.Request.Context(), campaignID, userID, principalID(ctx))
	if err != nil {
		renderParticipationErr(ctx, campaignID, fmt.Errorf("v1.HandleVerify -> h.svc.Verify -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipationResponse(result))
}

func renderParticipationErr(ctx *gin.Context, campaignID uint, err error) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound):
		response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
	case errors.Is(err, service.ErrAccessDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrAccessDenied))
	case errors.Is(err, service.ErrCampaignFull):
		response.RenderErr(ctx, response.ErrConflict(service.ErrCampaignFull))
	case errors.Is(err, service.ErrAlreadyJoined):
		response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyJoined))
	case errors.Is(err, service.ErrNotJoined):
		response.RenderErr(ctx, response.ErrConflict(service.ErrNotJoined))
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyCompleted))
	case errors.Is(err, service.ErrNotCompleted):
		response.RenderErr(ctx, response.ErrConflict(service.ErrNotCompleted))
	case errors.Is(err, service.ErrAlreadyVerified):
		response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyVerified))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
