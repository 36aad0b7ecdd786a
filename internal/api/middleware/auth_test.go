package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

type stubResolver map[string]domain.Session

func (r stubResolver) Resolve(_ context.Context, token string) (domain.Session, error) {
	session, ok := r[token]
	if !ok {
		return domain.Session{}, errors.New("unknown token")
	}
	return session, nil
}

func newTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	resolver := stubResolver{
		"user-token": {ID: "s1", Kind: domain.PrincipalUser, PrincipalID: 7},
		"org-token":  {ID: "s2", Kind: domain.PrincipalOrganization, PrincipalID: 3},
	}
	auth := NewAuthenticator(resolver)

	whoami := func(ctx *gin.Context) {
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			ctx.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"kind": principal.Kind, "id": principal.ID, "sid": SessionIDFromContext(ctx)})
	}

	router := gin.New()
	router.GET("/user", auth.Require(domain.PrincipalUser), whoami)
	router.GET("/org", auth.Require(domain.PrincipalOrganization), whoami)
	router.GET("/optional", auth.Optional(), whoami)
	if handler != nil {
		router.GET("/custom", handler)
	}
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator_Require(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantBody string
	}{
		{"user ok", "/user", "user-token", http.StatusOK, `{"id":7,"kind":"user","sid":"s1"}`},
		{"org ok", "/org", "org-token", http.StatusOK, `{"id":3,"kind":"organization","sid":"s2"}`},
		{"no token", "/user", "", http.StatusUnauthorized, ""},
		{"unknown token", "/user", "nope", http.StatusUnauthorized, ""},
		{"org token on user route", "/user", "org-token", http.StatusUnauthorized, ""},
		{"user token on org route", "/org", "user-token", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, tt.path, tt.token)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthenticator_Optional(t *testing.T) {
	router := newTestRouter(nil)

	rec := get(router, "/optional", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"anonymous":true}`, rec.Body.String())

	rec = get(router, "/optional", "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"anonymous":true}`, rec.Body.String())

	rec = get(router, "/optional", "user-token")
	assert.JSONEq(t, `{"id":7,"kind":"user","sid":"s1"}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	var got string
	var found bool
	router := newTestRouter(func(ctx *gin.Context) {
		got, found = bearerToken(ctx)
	})

	for header, want := range map[string]string{
		"Bearer abc": "abc",
		"bearer abc": "abc",
		"Basic abc":  "",
		"Bearer ":    "",
		"abc":        "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/custom", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, want, got, header)
		assert.Equal(t, want != "", found, header)
	}
}
