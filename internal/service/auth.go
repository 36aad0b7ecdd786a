package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/greenspark-api/internal/repository"
)

var (
	ErrUserEmailExists         = repository.ErrUserEmailExists
	ErrOrganizationEmailExists = repository.ErrOrganizationEmailExists
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrUnauthenticated         = errors.New("authentication required")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthOrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	FindByEmail(ctx context.Context, email string) (domain.Organization, error)
}

type SessionStore interface {
	Create(ctx context.Context, session domain.Session) error
	Find(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthConfig struct {
	SigningKey []byte
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type AuthService struct {
	users    AuthUserRepository
	orgs     AuthOrganizationRepository
	sessions SessionStore
	conf     AuthConfig
	now      func() time.Time

	// compared against when the email is unknown, so both failure paths
	// spend the same time in bcrypt.
	dummyHash []byte
}

func NewAuthService(users AuthUserRepository, orgs AuthOrganizationRepository, sessions SessionStore, conf AuthConfig) (*AuthService, error) {
	if conf.BcryptCost == 0 {
		conf.BcryptCost = bcrypt.DefaultCost
	}
	if conf.SessionTTL <= 0 {
		conf.SessionTTL = 24 * time.Hour
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), conf.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return &AuthService{
		users:     users,
		orgs:      orgs,
		sessions:  sessions,
		conf:      conf,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// RegisterUser creates the user and signs them in.
func (s *AuthService) RegisterUser(ctx context.Context, user domain.User) (domain.User, domain.AuthToken, error) {
	hash, err := s.hashPassword(user.Password)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}
	user.Email = normalizeEmail(user.Email)
	user.Password = hash
	user.EcoPoints = 0

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, fmt.Errorf("s.users.Create -> %w", err)
	}

	token, err := s.startSession(ctx, domain.PrincipalUser, created.ID)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	return created, token, nil
}

// RegisterOrganization creates the organization and signs it in.
func (s *AuthService) RegisterOrganization(ctx context.Context, org domain.Organization) (domain.Organization, domain.AuthToken, error) {
	hash, err := s.hashPassword(org.Password)
	if err != nil {
		return domain.Organization{}, domain.AuthToken{}, err
	}
	org.Email = normalizeEmail(org.Email)
	org.Password = hash
	org.Verified = false

	created, err := s.orgs.Create(ctx, org)
	if err != nil {
		return domain.Organization{}, domain.AuthToken{}, fmt.Errorf("s.orgs.Create -> %w", err)
	}

	token, err := s.startSession(ctx, domain.PrincipalOrganization, created.ID)
	if err != nil {
		return domain.Organization{}, domain.AuthToken{}, err
	}

	return created, token, nil
}

func (s *AuthService) LoginUser(ctx context.Context, email, password string) (domain.User, domain.AuthToken, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, domain.AuthToken{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
		}
		s.burnComparison(password)
		return domain.User{}, domain.AuthToken{}, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, domain.AuthToken{}, ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, domain.PrincipalUser, user.ID)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	return user, token, nil
}

func (s *AuthService) LoginOrganization(ctx context.Context, email, password string) (domain.Organization, domain.AuthToken, error) {
	org, err := s.orgs.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrOrganizationNotFound) {
			return domain.Organization{}, domain.AuthToken{}, fmt.Errorf("s.orgs.FindByEmail -> %w", err)
		}
		s.burnComparison(password)
		return domain.Organization{}, domain.AuthToken{}, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(org.Password), []byte(password)); err != nil {
		return domain.Organization{}, domain.AuthToken{}, ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, domain.PrincipalOrganization, org.ID)
	if err != nil {
		return domain.Organization{}, domain.AuthToken{}, err
	}

	return org, token, nil
}

// Resolve turns a bearer token into the session it points at. Any problem
// with the token or the session reads as ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.Session, error) {
	claims, err := jwthelper.ParseToken(s.conf.SigningKey, token)
	if err != nil {
		return domain.Session{}, ErrUnauthenticated
	}
	principalID, err := claims.PrincipalID()
	if err != nil {
		return domain.Session{}, ErrUnauthenticated
	}

	session, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Session{}, ErrUnauthenticated
		}

		return domain.Session{}, fmt.Errorf("s.sessions.Find -> %w", err)
	}

	if session.Kind != claims.Kind || session.PrincipalID != principalID || session.Expired(s.now()) {
		return domain.Session{}, ErrUnauthenticated
	}

	return session, nil
}

// EndSession signs out the given session. It only touches sessions of kind,
// so an organization logout never ends a user session and vice versa.
func (s *AuthService) EndSession(ctx context.Context, kind domain.PrincipalKind, sessionID string) error {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}

		return fmt.Errorf("s.sessions.Find -> %w", err)
	}
	if session.Kind != kind {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("s.sessions.Delete -> %w", err)
	}

	return nil
}

// PurgeExpiredSessions drops every session past its expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	purged, err := s.sessions.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("s.sessions.PurgeExpired -> %w", err)
	}

	return purged, nil
}

func (s *AuthService) startSession(ctx context.Context, kind domain.PrincipalKind, principalID uint) (domain.AuthToken, error) {
	now := s.now().UTC()
	session := domain.Session{
		ID:          uuid.NewString(),
		Kind:        kind,
		PrincipalID: principalID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.conf.SessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.AuthToken{}, fmt.Errorf("s.sessions.Create -> %w", err)
	}

	token, err := jwthelper.GenerateToken(s.conf.SigningKey, session)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	zap.L().Debug("session started",
		zap.String("kind", string(kind)),
		zap.Uint("principal_id", principalID),
		zap.Time("expires_at", session.ExpiresAt))

	return domain.AuthToken{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.conf.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}

func (s *AuthService) burnComparison(password string) {
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
