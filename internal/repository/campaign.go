package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
)

var (
	ErrCampaignNotFound = dao.ErrCampaignNotFound
)

type CampaignDAO interface {
	Insert(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	FindByID(ctx context.Context, id uint) (dao.Campaign, error)
	List(ctx context.Context, filter *dao.CampaignFilter, limit, offset int) ([]dao.Campaign, int64, error)
	FindVolunteerNames(ctx context.Context, campaignID uint, limit int) ([]string, error)
	IsMember(ctx context.Context, campaignID, userID uint) (bool, error)
	FindRoster(ctx context.Context, campaignID uint) ([]dao.RosterRow, error)
}

type CampaignRepository struct {
	dao CampaignDAO
}

func NewCampaignRepository(dao CampaignDAO) *CampaignRepository {
	return &CampaignRepository{
		dao: dao,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	daoCampaign, err := campaignDomainToDao(campaign)
	if err != nil {
		return domain.Campaign{}, err
	}

	created, err := r.dao.Insert(ctx, daoCampaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return campaignDaoToDomain(created), nil
}

// FindByID returns the campaign and, when it has one, its organization.
func (r *CampaignRepository) FindByID(ctx context.Context, id uint) (domain.Campaign, *domain.Organization, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, nil, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	var org *domain.Organization
	if found.Organization != nil {
		o := organizationDaoToDomain(*found.Organization)
		org = &o
	}

	return campaignDaoToDomain(found), org, nil
}

func (r *CampaignRepository) List(ctx context.Context, filter domain.CampaignFilter) (domain.CampaignPage, error) {
	filter = filter.Normalize()

	predicates := dao.NewCampaignFilter().
		Search(filter.Search).
		Category(filter.Category).
		Location(filter.Location)

	found, total, err := r.dao.List(ctx, predicates, filter.PageSize, filter.Offset())
	if err != nil {
		return domain.CampaignPage{}, fmt.Errorf("r.dao.List -> %w", err)
	}

	return domain.CampaignPage{
		Campaigns:  campaignsDaoToDomain(found),
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: domain.TotalPages(total, filter.PageSize),
	}, nil
}

func (r *CampaignRepository) FindVolunteerNames(ctx context.Context, campaignID uint, limit int) ([]string, error) {
	names, err := r.dao.FindVolunteerNames(ctx, campaignID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVolunteerNames -> %w", err)
	}
	if names == nil {
		names = []string{}
	}

	return names, nil
}

func (r *CampaignRepository) IsMember(ctx context.Context, campaignID, userID uint) (bool, error) {
	member, err := r.dao.IsMember(ctx, campaignID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsMember -> %w", err)
	}

	return member, nil
}

func (r *CampaignRepository) FindRoster(ctx context.Context, campaignID uint) ([]domain.RosterEntry, error) {
	rows, err := r.dao.FindRoster(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRoster -> %w", err)
	}

	roster := make([]domain.RosterEntry, len(rows))
	for i, row := range rows {
		roster[i] = domain.RosterEntry{
			UserID:    row.UserID,
			Name:      row.Name,
			Email:     row.Email,
			Status:    domain.MembershipStatus(row.Status),
			Completed: row.CompletionID != nil,
			Verified:  row.Verified != nil && *row.Verified,
			JoinedAt:  row.JoinedAt,
		}
	}

	return roster, nil
}

func campaignDomainToDao(c domain.Campaign) (dao.Campaign, error) {
	requirements := c.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	encoded, err := json.Marshal(requirements)
	if err != nil {
		return dao.Campaign{}, fmt.Errorf("json.Marshal requirements -> %w", err)
	}

	return dao.Campaign{
		ID:               c.ID,
		Slug:             c.Slug,
		Title:            c.Title,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Category:         c.Category,
		Location:         c.Location,
		Date:             c.Date,
		Time:             c.Time,
		VolunteersNeeded: c.VolunteersNeeded,
		VolunteersJoined: c.VolunteersJoined,
		Status:           string(c.Status),
		Featured:         c.Featured,
		Image:            c.Image,
		OrganizationID:   c.OrganizationID,
		Requirements:     datatypes.JSON(encoded),
	}, nil
}

func campaignDaoToDomain(c dao.Campaign) domain.Campaign {
	return domain.Campaign{
		ID:               c.ID,
		Slug:             c.Slug,
		Title:            c.Title,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Category:         c.Category,
		Location:         c.Location,
		Date:             c.Date,
		Time:             c.Time,
		VolunteersNeeded: c.VolunteersNeeded,
		VolunteersJoined: c.VolunteersJoined,
		Status:           domain.CampaignStatus(c.Status),
		Featured:         c.Featured,
		Image:            c.Image,
		OrganizationID:   c.OrganizationID,
		Requirements:     decodeRequirements(c.ID, c.Requirements),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func campaignsDaoToDomain(found []dao.Campaign) []domain.Campaign {
	campaigns := make([]domain.Campaign, len(found))
	for i, c := range found {
		campaigns[i] = campaignDaoToDomain(c)
	}
	return campaigns
}

// decodeRequirements never fails: a payload that is not a JSON list of
// strings reads as no requirements.
func decodeRequirements(campaignID uint, raw datatypes.JSON) []string {
	requirements := []string{}
	if len(raw) == 0 {
		return requirements
	}

	if err := json.Unmarshal(raw, &requirements); err != nil {
		zap.L().Warn("malformed campaign requirements", zap.Uint("campaign_id", campaignID), zap.Error(err))
		return []string{}
	}
	if requirements == nil {
		return []string{}
	}

	return requirements
}
