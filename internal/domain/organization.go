package domain

import "time"

type Organization struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Contact     string    `json:"contact"`
	Address     string    `json:"address"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrganizationStats struct {
	TotalCampaigns  int   `json:"total_campaigns"`
	TotalVolunteers int64 `json:"total_volunteers"`
}

type OrganizationDashboard struct {
	Organization Organization      `json:"organization"`
	Campaigns    []Campaign        `json:"campaigns"`
	Stats        OrganizationStats `json:"stats"`
}
