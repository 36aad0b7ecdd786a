package domain

import "time"

type PrincipalKind string

const (
	PrincipalUser         PrincipalKind = "user"
	PrincipalOrganization PrincipalKind = "organization"
)

func (k PrincipalKind) Valid() bool {
	return k == PrincipalUser || k == PrincipalOrganization
}

// Principal is the authenticated caller of a request.
type Principal struct {
	Kind PrincipalKind `json:"kind"`
	ID   uint          `json:"id"`
}

type Session struct {
	ID          string        `json:"id"`
	Kind        PrincipalKind `json:"kind"`
	PrincipalID uint          `json:"principal_id"`
	ExpiresAt   time.Time     `json:"expires_at"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (s Session) Principal() Principal {
	return Principal{Kind: s.Kind, ID: s.PrincipalID}
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// AuthToken is what a client presents on subsequent requests.
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
