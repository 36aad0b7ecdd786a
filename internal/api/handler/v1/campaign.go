package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/service"
)

type CampaignService interface {
	CreateCampaign(ctx context.Context, organizationID uint, draft domain.CampaignDraft) (domain.Campaign, error)
	ListCampaigns(ctx context.Context, filter domain.CampaignFilter) (domain.CampaignPage, error)
	GetCampaign(ctx context.Context, id uint, viewer *domain.Principal) (domain.CampaignDetail, error)
	Roster(ctx context.Context, campaignID, organizationID uint) ([]domain.RosterEntry, error)
}

type CampaignHandler struct {
	svc CampaignService
}

func NewCampaignHandler(svc CampaignService) *CampaignHandler {
	return &CampaignHandler{
		svc: svc,
	}
}

// HandleListCampaigns godoc
// @Summary      List campaigns
// @Description  Featured campaigns first, then by date. Search matches title or description.
// @Tags         campaigns
// @Produce      json
// @Param        search    query     string  false  "substring of title or description"
// @Param        category  query     string  false  "exact category"
// @Param        location  query     string  false  "substring of location"
// @Param        page      query     int     false  "page number, starting at 1"
// @Success      200      {object}   response.CampaignPage
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns [get]
func (h *CampaignHandler) HandleListCampaigns(ctx *gin.Context) {
	var req request.ListCampaignsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := h.svc.ListCampaigns(ctx.Request.Context(), req.ToFilter())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCampaigns -> h.svc.ListCampaigns -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCampaignPage(page))
}

// HandleGetCampaign godoc
// @Summary      Get a campaign
// @Description  Includes the organization, up to 10 volunteer names and whether the caller joined.
// @Tags         campaigns
// @Produce      json
// @Param        campaignID   path      int  true  "campaign ID"
// @Success      200      {object}   response.CampaignDetail
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns/{campaignID} [get]
func (h *CampaignHandler) HandleGetCampaign(ctx *gin.Context) {
	campaignID, err := parseIDParam(ctx, "campaignID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	detail, err := h.svc.GetCampaign(ctx.Request.Context(), campaignID, optionalPrincipal(ctx))
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCampaign -> h.svc.GetCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCampaignDetail(detail))
}

// HandleCreateCampaign godoc
// @Summary      Create a campaign
// @Tags         campaigns
// @Produce      json
// @Param        request   body      request.CreateCampaignRequest true "request body"
// @Success      201      {object}   response.Campaign
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleCreateCampaign(ctx *gin.Context) {
	var req request.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	campaign, err := h.svc.CreateCampaign(ctx.Request.Context(), principalID(ctx), draft)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCampaign -> h.svc.CreateCampaign -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewCampaign(campaign))
}

// HandleGetRoster godoc
// @Summary      List the volunteers of an owned campaign
// @Tags         campaigns
// @Produce      json
// @Param        campaignID   path      int  true  "campaign ID"
// @Success      200      {array}    domain.RosterEntry
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /campaigns/{campaignID}/volunteers [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleGetRoster(ctx *gin.Context) {
	campaignID, err := parseIDParam(ctx, "campaignID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	roster, err := h.svc.Roster(ctx.Request.Context(), campaignID, principalID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "ID", campaignID))
		case errors.Is(err, service.ErrAccessDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleGetRoster -> h.svc.Roster -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, roster)
}
