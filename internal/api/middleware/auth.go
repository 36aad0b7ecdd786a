package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/greenspark-api/internal/domain"
)

const (
	principalKey = "principal"
	sessionIDKey = "sessionID"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errWrongKind    = errors.New("session does not belong to the required account kind")
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.Session, error)
}

// Authenticator turns the bearer token of a request into a principal.
type Authenticator struct {
	resolver SessionResolver
}

func NewAuthenticator(resolver SessionResolver) *Authenticator {
	return &Authenticator{
		resolver: resolver,
	}
}

// Require rejects the request unless it carries a live session of kind.
func (a *Authenticator) Require(kind domain.PrincipalKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		session, err := a.resolver.Resolve(ctx.Request.Context(), token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("a.resolver.Resolve -> %w", err)))
			return
		}

		if session.Kind != kind {
			response.RenderErr(ctx, response.ErrUnauthorized(errWrongKind))
			return
		}

		setSession(ctx, session)
		ctx.Next()
	}
}

// Optional attaches the principal when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			if session, err := a.resolver.Resolve(ctx.Request.Context(), token); err == nil {
				setSession(ctx, session)
			}
		}
		ctx.Next()
	}
}

func PrincipalFromContext(ctx *gin.Context) (domain.Principal, bool) {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := v.(domain.Principal)
	return principal, ok
}

func SessionIDFromContext(ctx *gin.Context) string {
	return ctx.GetString(sessionIDKey)
}

func setSession(ctx *gin.Context, session domain.Session) {
	ctx.Set(principalKey, session.Principal())
	ctx.Set(sessionIDKey, session.ID)
}

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
