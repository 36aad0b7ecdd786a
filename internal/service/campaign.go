package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository"
)

const campaignDetailVolunteers = 10

var (
	ErrCampaignNotFound = repository.ErrCampaignNotFound
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	FindByID(ctx context.Context, id uint) (domain.Campaign, *domain.Organization, error)
	List(ctx context.Context, filter domain.CampaignFilter) (domain.CampaignPage, error)
	FindVolunteerNames(ctx context.Context, campaignID uint, limit int) ([]string, error)
	IsMember(ctx context.Context, campaignID, userID uint) (bool, error)
	FindRoster(ctx context.Context, campaignID uint) ([]domain.RosterEntry, error)
}

type CampaignService struct {
	repo     CampaignRepository
	pageSize int
}

func NewCampaignService(repo CampaignRepository, pageSize int) *CampaignService {
	if pageSize <= 0 {
		pageSize = domain.DefaultCampaignPageSize
	}

	return &CampaignService{
		repo:     repo,
		pageSize: pageSize,
	}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, organizationID uint, draft domain.CampaignDraft) (domain.Campaign, error) {
	owner := organizationID
	campaign := domain.Campaign{
		Slug:             slug.Make(draft.Title),
		Title:            draft.Title,
		Description:      draft.Description,
		ShortDescription: draft.ShortDescription,
		Category:         draft.Category,
		Location:         draft.Location,
		Date:             draft.Date,
		Time:             draft.Time,
		VolunteersNeeded: draft.VolunteersNeeded,
		VolunteersJoined: 0,
		Status:           domain.CampaignStatusUpcoming,
		Image:            draft.Image,
		OrganizationID:   &owner,
		Requirements:     domain.SplitRequirements(draft.RequirementsText),
	}

	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) (domain.CampaignPage, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = s.pageSize
	}

	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.CampaignPage{}, fmt.Errorf("s.repo.List -> %w", err)
	}

	return page, nil
}

// GetCampaign returns the campaign with its organization and first
// volunteers. viewer may be nil; UserJoined is only set for a signed-in user.
func (s *CampaignService) GetCampaign(ctx context.Context, id uint, viewer *domain.Principal) (domain.CampaignDetail, error) {
	campaign, org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.CampaignDetail{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	volunteers, err := s.repo.FindVolunteerNames(ctx, id, campaignDetailVolunteers)
	if err != nil {
		return domain.CampaignDetail{}, fmt.Errorf("s.repo.FindVolunteerNames -> %w", err)
	}

	detail := domain.CampaignDetail{
		Campaign:     campaign,
		Organization: org,
		Volunteers:   volunteers,
	}

	if viewer != nil && viewer.Kind == domain.PrincipalUser {
		detail.UserJoined, err = s.repo.IsMember(ctx, id, viewer.ID)
		if err != nil {
			return domain.CampaignDetail{}, fmt.Errorf("s.repo.IsMember -> %w", err)
		}
	}

	return detail, nil
}

// Roster lists the volunteers of a campaign. Only the owning organization
// may see it.
func (s *CampaignService) Roster(ctx context.Context, campaignID, organizationID uint) ([]domain.RosterEntry, error) {
	campaign, _, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !campaign.OwnedBy(organizationID) {
		return nil, ErrAccessDenied
	}

	roster, err := s.repo.FindRoster(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRoster -> %w", err)
	}

	return roster, nil
}
