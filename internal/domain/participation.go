package domain

import "time"

type MembershipStatus string

const (
	MembershipJoined    MembershipStatus = "joined"
	MembershipCompleted MembershipStatus = "completed"
	MembershipVerified  MembershipStatus = "verified"
)

type Membership struct {
	ID         uint             `json:"id"`
	CampaignID uint             `json:"campaign_id"`
	UserID     uint             `json:"user_id"`
	Status     MembershipStatus `json:"status"`
	JoinedAt   time.Time        `json:"joined_at"`
}

type Completion struct {
	ID          uint      `json:"id"`
	CampaignID  uint      `json:"campaign_id"`
	UserID      uint      `json:"user_id"`
	Verified    bool      `json:"verified"`
	VerifiedBy  *uint     `json:"verified_by,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Progress is the accumulated state badge rules are evaluated against.
type Progress struct {
	CampaignsCompleted int64
	EcoPoints          int
}

type ParticipationResult struct {
	CampaignID    uint             `json:"campaign_id"`
	UserID        uint             `json:"user_id"`
	Status        MembershipStatus `json:"status"`
	PointsAwarded int              `json:"points_awarded"`
	BadgesAwarded []Badge          `json:"badges_awarded"`
}

type RosterEntry struct {
	UserID    uint             `json:"user_id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Status    MembershipStatus `json:"status"`
	Completed bool             `json:"completed"`
	Verified  bool             `json:"verified"`
	JoinedAt  time.Time        `json:"joined_at"`
}
