package request

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

const dateLayout = "2006-01-02"

type CreateCampaignRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	Date             string `json:"date" example:"2026-04-22"`
	Time             string `json:"time" example:"09:00"`
	VolunteersNeeded int    `json:"volunteers_needed"`
	Image            string `json:"image"`
	// One requirement per line.
	Requirements string `json:"requirements"`
}

func (req *CreateCampaignRequest) Validate() error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	req.Location = strings.TrimSpace(req.Location)
	req.Date = strings.TrimSpace(req.Date)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.VolunteersNeeded, validation.Required, validation.Min(1)),
	)
}

// ToDraft must be called after Validate.
func (req *CreateCampaignRequest) ToDraft() (domain.CampaignDraft, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return domain.CampaignDraft{}, err
	}

	return domain.CampaignDraft{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Location:         req.Location,
		Date:             date,
		Time:             optional(req.Time),
		VolunteersNeeded: req.VolunteersNeeded,
		Image:            optional(req.Image),
		RequirementsText: req.Requirements,
	}, nil
}

type ListCampaignsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Location string `form:"location"`
	Page     int    `form:"page"`
}

func (req *ListCampaignsRequest) ToFilter() domain.CampaignFilter {
	return domain.CampaignFilter{
		Search:   req.Search,
		Category: req.Category,
		Location: req.Location,
		Page:     req.Page,
	}
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
