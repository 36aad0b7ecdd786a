package response

import (
	"time"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

type UserAuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

type OrganizationAuthResponse struct {
	Token        string              `json:"token"`
	ExpiresAt    time.Time           `json:"expires_at"`
	Organization domain.Organization `json:"organization"`
}
