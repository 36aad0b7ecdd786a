package domain

import "time"

type ActivityType string

const (
	ActivityCampaignJoined    ActivityType = "campaign_joined"
	ActivityCampaignCompleted ActivityType = "campaign_completed"
	ActivityCampaignVerified  ActivityType = "campaign_verified"
)

type Activity struct {
	ID            uint         `json:"id"`
	UserID        uint         `json:"user_id"`
	CampaignID    *uint        `json:"campaign_id,omitempty"`
	CampaignTitle string       `json:"campaign_title,omitempty"`
	Type          ActivityType `json:"type"`
	Description   string       `json:"description"`
	PointsEarned  int          `json:"points_earned"`
	CreatedAt     time.Time    `json:"created_at"`
}
