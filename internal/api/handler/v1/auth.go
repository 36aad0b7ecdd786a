package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/greenspark-api/internal/api/middleware"
	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/service"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user domain.User) (domain.User, domain.AuthToken, error)
	RegisterOrganization(ctx context.Context, org domain.Organization) (domain.Organization, domain.AuthToken, error)
	LoginUser(ctx context.Context, email, password string) (domain.User, domain.AuthToken, error)
	LoginOrganization(ctx context.Context, email, password string) (domain.Organization, domain.AuthToken, error)
	EndSession(ctx context.Context, kind domain.PrincipalKind, sessionID string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleUserSignup godoc
// @Summary      Register a volunteer
// @Tags         auth
// @Produce      json
// @Param        request   body      request.UserSignupRequest true "request body"
// @Success      201      {object}   response.UserAuthResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/users/signup [post]
func (h *AuthHandler) HandleUserSignup(ctx *gin.Context) {
	var req request.UserSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, token, err := h.svc.RegisterUser(ctx.Request.Context(), domain.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleUserSignup -> h.svc.RegisterUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.UserAuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	})
}

// HandleUserLogin godoc
// @Summary      Login a volunteer
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.UserAuthResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/users/login [post]
func (h *AuthHandler) HandleUserLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, token, err := h.svc.LoginUser(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleUserLogin -> h.svc.LoginUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.UserAuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	})
}

// HandleOrganizationSignup godoc
// @Summary      Register an organization
// @Tags         auth
// @Produce      json
// @Param        request   body      request.OrganizationSignupRequest true "request body"
// @Success      201      {object}   response.OrganizationAuthResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/organizations/signup [post]
func (h *AuthHandler) HandleOrganizationSignup(ctx *gin.Context) {
	var req request.OrganizationSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	org, token, err := h.svc.RegisterOrganization(ctx.Request.Context(), domain.Organization{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Description: req.Description,
		Contact:     req.Contact,
		Address:     req.Address,
	})
	if err != nil {
		if errors.Is(err, service.ErrOrganizationEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrOrganizationEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleOrganizationSignup -> h.svc.RegisterOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.OrganizationAuthResponse{
		Token:        token.Token,
		ExpiresAt:    token.ExpiresAt,
		Organization: org,
	})
}

// HandleOrganizationLogin godoc
// @Summary      Login an organization
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.OrganizationAuthResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/organizations/login [post]
func (h *AuthHandler) HandleOrganizationLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	org, token, err := h.svc.LoginOrganization(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleOrganizationLogin -> h.svc.LoginOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OrganizationAuthResponse{
		Token:        token.Token,
		ExpiresAt:    token.ExpiresAt,
		Organization: org,
	})
}

// HandleUserLogout godoc
// @Summary      End the volunteer session
// @Tags         auth
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/users/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleUserLogout(ctx *gin.Context) {
	h.logout(ctx, domain.PrincipalUser)
}

// HandleOrganizationLogout godoc
// @Summary      End the organization session
// @Tags         auth
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/organizations/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleOrganizationLogout(ctx *gin.Context) {
	h.logout(ctx, domain.PrincipalOrganization)
}

func (h *AuthHandler) logout(ctx *gin.Context, kind domain.PrincipalKind) {
	err := h.svc.EndSession(ctx.Request.Context(), kind, middleware.SessionIDFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("v1.logout -> h.svc.EndSession -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
