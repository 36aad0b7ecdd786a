package jwthelper

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

const issuer = "greenspark-api"

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims only point at a server-side session; the session record
// decides whether the token is still good.
type SessionClaims struct {
	jwt.RegisteredClaims

	SessionID string               `json:"sid"`
	Kind      domain.PrincipalKind `json:"kind"`
}

func GenerateToken(signingKey []byte, session domain.Session) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(session.PrincipalID), 10),
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		SessionID: session.ID,
		Kind:      session.Kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func ParseToken(signingKey []byte, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" || !claims.Kind.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// PrincipalID returns the subject claim as a principal id.
func (c *SessionClaims) PrincipalID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return uint(id), nil
}
