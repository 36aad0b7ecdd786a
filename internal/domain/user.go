package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	EcoPoints int       `json:"eco_points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserStats struct {
	CampaignsJoined    int64 `json:"campaigns_joined"`
	CampaignsCompleted int64 `json:"campaigns_completed"`
	EcoPoints          int   `json:"eco_points"`
	BadgesCount        int64 `json:"badges_count"`
	ImpactScore        int   `json:"impact_score"`
}

// ImpactScore is a 0-100 summary of how involved a volunteer is.
func ImpactScore(campaignsJoined int64, ecoPoints int) int {
	score := int(campaignsJoined)*20 + ecoPoints/10
	if score > 100 {
		return 100
	}
	return score
}

type UserDashboard struct {
	User            User       `json:"user"`
	ActiveCampaigns []Campaign `json:"active_campaigns"`
	Stats           UserStats  `json:"stats"`
	Badges          []Badge    `json:"badges"`
}

type LeaderboardEntry struct {
	UserID             uint   `json:"user_id"`
	Name               string `json:"name"`
	Location           string `json:"location"`
	EcoPoints          int    `json:"eco_points"`
	BadgeCount         int64  `json:"badge_count"`
	CampaignsCompleted int64  `json:"campaigns_completed"`
}
