package v1

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/service"
)

type fakeAuthService struct {
	err        error
	registered domain.User
	ended      []string
}

func (f *fakeAuthService) token() domain.AuthToken {
	return domain.AuthToken{Token: "signed", ExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeAuthService) RegisterUser(_ context.Context, user domain.User) (domain.User, domain.AuthToken, error) {
	if f.err != nil {
		return domain.User{}, domain.AuthToken{}, f.err
	}
	user.ID = 1
	f.registered = user
	return user, f.token(), nil
}

func (f *fakeAuthService) RegisterOrganization(_ context.Context, org domain.Organization) (domain.Organization, domain.AuthToken, error) {
	if f.err != nil {
		return domain.Organization{}, domain.AuthToken{}, f.err
	}
	org.ID = 2
	return org, f.token(), nil
}

func (f *fakeAuthService) LoginUser(_ context.Context, email, _ string) (domain.User, domain.AuthToken, error) {
	if f.err != nil {
		return domain.User{}, domain.AuthToken{}, f.err
	}
	return domain.User{ID: 1, Email: email}, f.token(), nil
}

func (f *fakeAuthService) LoginOrganization(_ context.Context, email, _ string) (domain.Organization, domain.AuthToken, error) {
	if f.err != nil {
		return domain.Organization{}, domain.AuthToken{}, f.err
	}
	return domain.Organization{ID: 2, Email: email}, f.token(), nil
}

func (f *fakeAuthService) EndSession(_ context.Context, kind domain.PrincipalKind, sessionID string) error {
	f.ended = append(f.ended, string(kind)+":"+sessionID)
	return f.err
}

func newAuthRouterEngine(svc *fakeAuthService) *gin.Engine {
	router, auth := newRouter()
	h := NewAuthHandler(svc)

	router.POST("/auth/users/signup", h.HandleUserSignup)
	router.POST("/auth/users/login", h.HandleUserLogin)
	router.POST("/auth/users/logout", auth.Require(domain.PrincipalUser), h.HandleUserLogout)
	router.POST("/auth/organizations/signup", h.HandleOrganizationSignup)
	router.POST("/auth/organizations/login", h.HandleOrganizationLogin)
	router.POST("/auth/organizations/logout", auth.Require(domain.PrincipalOrganization), h.HandleOrganizationLogout)
	return router
}

func TestAuthHandler_UserSignup(t *testing.T) {
	body := map[string]string{
		"email":            "asha@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
		"name":             "Asha",
		"phone":            "+91 98200 00000",
		"location":         "Mumbai",
	}

	t.Run("created", func(t *testing.T) {
		svc := &fakeAuthService{}

		rec := doRequest(t, newAuthRouterEngine(svc), http.MethodPost, "/auth/users/signup", "", body)
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decode[response.UserAuthResponse](t, rec)
		assert.Equal(t, "signed", resp.Token)
		assert.Equal(t, uint(1), resp.User.ID)
		assert.Equal(t, "Mumbai", svc.registered.Location)
		assert.NotContains(t, rec.Body.String(), "secret1")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &fakeAuthService{err: service.ErrUserEmailExists}

		rec := doRequest(t, newAuthRouterEngine(svc), http.MethodPost, "/auth/users/signup", "", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("password mismatch", func(t *testing.T) {
		mismatch := map[string]string{}
		for k, v := range body {
			mismatch[k] = v
		}
		mismatch["confirm_password"] = "secret2"

		rec := doRequest(t, newAuthRouterEngine(&fakeAuthService{}), http.MethodPost, "/auth/users/signup", "", mismatch)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	for _, field := range []string{"name", "phone", "location", "email", "password"} {
		t.Run("missing "+field, func(t *testing.T) {
			svc := &fakeAuthService{}
			incomplete := map[string]string{}
			for k, v := range body {
				if k != field {
					incomplete[k] = v
				}
			}

			rec := doRequest(t, newAuthRouterEngine(svc), http.MethodPost, "/auth/users/signup", "", incomplete)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.registered.Email)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		rec := doRequest(t, newAuthRouterEngine(&fakeAuthService{err: errStorage}), http.MethodPost, "/auth/users/signup", "", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		resp := decode[response.Err](t, rec)
		assert.Empty(t, resp.ErrorText)
	})
}

func TestAuthHandler_OrganizationSignup(t *testing.T) {
	body := map[string]string{
		"email":            "ngo@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
		"name":             "Ocean NGO",
		"contact":          "+91 22 0000 0000",
	}

	rec := doRequest(t, newAuthRouterEngine(&fakeAuthService{}), http.MethodPost, "/auth/organizations/signup", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ocean NGO", decode[response.OrganizationAuthResponse](t, rec).Organization.Name)

	delete(body, "contact")
	rec = doRequest(t, newAuthRouterEngine(&fakeAuthService{}), http.MethodPost, "/auth/organizations/signup", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	body := map[string]string{"email": "asha@example.com", "password": "secret1"}

	rec := doRequest(t, newAuthRouterEngine(&fakeAuthService{}), http.MethodPost, "/auth/organizations/login", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	org := decode[response.OrganizationAuthResponse](t, rec)
	assert.Equal(t, uint(2), org.Organization.ID)

	rec = doRequest(t, newAuthRouterEngine(&fakeAuthService{err: service.ErrInvalidCredentials}), http.MethodPost, "/auth/users/login", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", decode[response.Err](t, rec).ErrorText)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	router := newAuthRouterEngine(svc)

	rec := doRequest(t, router, http.MethodPost, "/auth/users/logout", userToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/auth/organizations/logout", orgToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/auth/organizations/logout", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, []string{"user:user-session", "organization:org-session"}, svc.ended)
}
