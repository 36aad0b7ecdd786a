package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

type authFixture struct {
	svc      *AuthService
	users    *fakeUserRepo
	orgs     *fakeOrganizationRepo
	sessions *fakeSessionStore
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	f := authFixture{
		users:    newFakeUserRepo(),
		orgs:     newFakeOrganizationRepo(),
		sessions: newFakeSessionStore(),
	}

	svc, err := NewAuthService(f.users, f.orgs, f.sessions, AuthConfig{
		SigningKey: []byte("test-key"),
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	f.svc = svc

	return f
}

func TestAuthService_RegisterUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := f.svc.RegisterUser(ctx, domain.User{
		Email:    " Asha@Example.com ",
		Password: "secret1",
		Name:     "Asha",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
	assert.NotEmpty(t, token.Token)

	session, err := f.svc.Resolve(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{Kind: domain.PrincipalUser, ID: user.ID}, session.Principal())
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.RegisterUser(ctx, domain.User{Email: "asha@example.com", Password: "secret1", Name: "Asha"})
	require.NoError(t, err)

	_, _, err = f.svc.RegisterUser(ctx, domain.User{Email: "ASHA@example.com", Password: "secret2", Name: "Other"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	_, _, err = f.svc.RegisterOrganization(ctx, domain.Organization{Email: "ngo@example.com", Password: "secret1", Name: "NGO"})
	require.NoError(t, err)
	_, _, err = f.svc.RegisterOrganization(ctx, domain.Organization{Email: "ngo@example.com", Password: "secret1", Name: "NGO"})
	assert.ErrorIs(t, err, ErrOrganizationEmailExists)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.RegisterUser(ctx, domain.User{Email: "asha@example.com", Password: "secret1", Name: "Asha"})
	require.NoError(t, err)

	_, _, wrongPassword := f.svc.LoginUser(ctx, "asha@example.com", "nope-nope")
	_, _, unknownEmail := f.svc.LoginUser(ctx, "ghost@example.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, _, err = f.svc.LoginOrganization(ctx, "asha@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	org, _, err := f.svc.RegisterOrganization(ctx, domain.Organization{Email: "ngo@example.com", Password: "secret1", Name: "NGO"})
	require.NoError(t, err)

	loggedIn, token, err := f.svc.LoginOrganization(ctx, "NGO@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, org.ID, loggedIn.ID)

	session, err := f.svc.Resolve(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.PrincipalOrganization, session.Kind)
}

func TestAuthService_EndSessionOnlyTouchesItsKind(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, userToken, err := f.svc.RegisterUser(ctx, domain.User{Email: "asha@example.com", Password: "secret1", Name: "Asha"})
	require.NoError(t, err)
	_, orgToken, err := f.svc.RegisterOrganization(ctx, domain.Organization{Email: "ngo@example.com", Password: "secret1", Name: "NGO"})
	require.NoError(t, err)

	userSession, err := f.svc.Resolve(ctx, userToken.Token)
	require.NoError(t, err)
	orgSession, err := f.svc.Resolve(ctx, orgToken.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.EndSession(ctx, domain.PrincipalUser, orgSession.ID))
	_, err = f.svc.Resolve(ctx, orgToken.Token)
	assert.NoError(t, err)

	require.NoError(t, f.svc.EndSession(ctx, domain.PrincipalUser, userSession.ID))
	_, err = f.svc.Resolve(ctx, userToken.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.Resolve(ctx, orgToken.Token)
	assert.NoError(t, err)
}

func TestAuthService_ResolveExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := f.svc.RegisterUser(ctx, domain.User{Email: "asha@example.com", Password: "secret1", Name: "Asha"})
	require.NoError(t, err)

	// Expire the session record while the token is still inside its window.
	for id, session := range f.sessions.sessions {
		session.ExpiresAt = time.Now().Add(-time.Second)
		f.sessions.sessions[id] = session
	}

	_, err = f.svc.Resolve(ctx, token.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	purged, err := f.svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestAuthService_ResolveRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
