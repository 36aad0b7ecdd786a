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

type OrganizationService interface {
	Dashboard(ctx context.Context, organizationID uint) (domain.OrganizationDashboard, error)
}

type OrganizationHandler struct {
	svc OrganizationService
}

func NewOrganizationHandler(svc OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		svc: svc,
	}
}

// HandleDashboard godoc
// @Summary      Get the organization dashboard
// @Tags         organizations
// @Produce      json
// @Success      200      {object}   domain.OrganizationDashboard
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /organizations/me/dashboard [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleDashboard(ctx *gin.Context) {
	orgID := principalID(ctx)

	dashboard, err := h.svc.Dashboard(ctx.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organization", "ID", orgID))
			return
		}

		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}
