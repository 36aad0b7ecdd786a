package response

import (
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

// Campaign adds the derived capacity fields to a campaign.
type Campaign struct {
	domain.Campaign
	SpotsLeft int  `json:"spots_left"`
	IsFull    bool `json:"is_full"`
}

func NewCampaign(c domain.Campaign) Campaign {
	return Campaign{
		Campaign:  c,
		SpotsLeft: c.SpotsLeft(),
		IsFull:    c.IsFull(),
	}
}

func NewCampaigns(campaigns []domain.Campaign) []Campaign {
	resp := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		resp = append(resp, NewCampaign(c))
	}
	return resp
}

type CampaignPage struct {
	Campaigns  []Campaign `json:"campaigns"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

func NewCampaignPage(page domain.CampaignPage) CampaignPage {
	return CampaignPage{
		Campaigns:  NewCampaigns(page.Campaigns),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

type CampaignDetail struct {
	Campaign     Campaign             `json:"campaign"`
	Organization *domain.Organization `json:"organization,omitempty"`
	Volunteers   []string             `json:"volunteers"`
	UserJoined   bool                 `json:"user_joined"`
}

func NewCampaignDetail(detail domain.CampaignDetail) CampaignDetail {
	return CampaignDetail{
		Campaign:     NewCampaign(detail.Campaign),
		Organization: detail.Organization,
		Volunteers:   detail.Volunteers,
		UserJoined:   detail.UserJoined,
	}
}

type ParticipationResponse struct {
	domain.ParticipationResult
	Message string `json:"message"`
}

func NewParticipationResponse(result domain.ParticipationResult) ParticipationResponse {
	var message string
	switch result.Status {
	case domain.MembershipJoined:
		message = fmt.Sprintf("Successfully joined the campaign! You earned %d eco points.", result.PointsAwarded)
	case domain.MembershipCompleted:
		message = fmt.Sprintf("Campaign marked as completed! You earned %d eco points.", result.PointsAwarded)
	case domain.MembershipVerified:
		message = fmt.Sprintf("Volunteer verified and awarded %d bonus points.", result.PointsAwarded)
	}

	return ParticipationResponse{
		ParticipationResult: result,
		Message:             message,
	}
}

type Healthcheck struct {
	Status string `json:"status"`
}
