package domain

import (
	"math"
	"strings"
	"time"
)

const DefaultCampaignPageSize = 9

type CampaignStatus string

const (
	CampaignStatusUpcoming  CampaignStatus = "upcoming"
	CampaignStatusCompleted CampaignStatus = "completed"
)

type Campaign struct {
	ID               uint           `json:"id"`
	Slug             string         `json:"slug"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	Category         string         `json:"category"`
	Location         string         `json:"location"`
	Date             time.Time      `json:"date"`
	Time             *string        `json:"time,omitempty"`
	VolunteersNeeded int            `json:"volunteers_needed"`
	VolunteersJoined int            `json:"volunteers_joined"`
	Status           CampaignStatus `json:"status"`
	Featured         bool           `json:"featured"`
	Image            *string        `json:"image,omitempty"`
	OrganizationID   *uint          `json:"organization_id,omitempty"`
	Requirements     []string       `json:"requirements"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (c Campaign) IsFull() bool {
	return c.VolunteersJoined >= c.VolunteersNeeded
}

func (c Campaign) SpotsLeft() int {
	if c.IsFull() {
		return 0
	}
	return c.VolunteersNeeded - c.VolunteersJoined
}

func (c Campaign) OwnedBy(organizationID uint) bool {
	return c.OrganizationID != nil && *c.OrganizationID == organizationID
}

// CampaignDraft is the input of campaign creation. Requirements arrive as
// free text, one requirement per line.
type CampaignDraft struct {
	Title            string
	Description      string
	ShortDescription string
	Category         string
	Location         string
	Date             time.Time
	Time             *string
	VolunteersNeeded int
	Image            *string
	RequirementsText string
}

// SplitRequirements turns multi-line text into an ordered list, dropping
// blank lines.
func SplitRequirements(text string) []string {
	requirements := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			requirements = append(requirements, line)
		}
	}
	return requirements
}

type CampaignFilter struct {
	Search   string
	Category string
	Location string
	Page     int
	PageSize int
}

// Normalize fills in the paging defaults.
func (f CampaignFilter) Normalize() CampaignFilter {
	if f.PageSize <= 0 {
		f.PageSize = DefaultCampaignPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if maxPage := math.MaxInt/f.PageSize + 1; f.Page > maxPage {
		f.Page = maxPage
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	f.Location = strings.TrimSpace(f.Location)
	return f
}

func (f CampaignFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type CampaignPage struct {
	Campaigns  []Campaign `json:"campaigns"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

type CampaignDetail struct {
	Campaign     Campaign      `json:"campaign"`
	Organization *Organization `json:"organization,omitempty"`
	Volunteers   []string      `json:"volunteers"`
	UserJoined   bool          `json:"user_joined"`
}
