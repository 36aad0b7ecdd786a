package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository"
)

var (
	ErrOrganizationNotFound = repository.ErrOrganizationNotFound
)

type OrganizationRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Organization, error)
	FindCampaigns(ctx context.Context, organizationID uint) ([]domain.Campaign, error)
	CountVolunteers(ctx context.Context, organizationID uint) (int64, error)
}

type OrganizationService struct {
	repo OrganizationRepository
}

func NewOrganizationService(repo OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		repo: repo,
	}
}

func (s *OrganizationService) Dashboard(ctx context.Context, organizationID uint) (domain.OrganizationDashboard, error) {
	org, err := s.repo.FindByID(ctx, organizationID)
	if err != nil {
		return domain.OrganizationDashboard{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	campaigns, err := s.repo.FindCampaigns(ctx, organizationID)
	if err != nil {
		return domain.OrganizationDashboard{}, fmt.Errorf("s.repo.FindCampaigns -> %w", err)
	}

	volunteers, err := s.repo.CountVolunteers(ctx, organizationID)
	if err != nil {
		return domain.OrganizationDashboard{}, fmt.Errorf("s.repo.CountVolunteers -> %w", err)
	}

	return domain.OrganizationDashboard{
		Organization: org,
		Campaigns:    campaigns,
		Stats: domain.OrganizationStats{
			TotalCampaigns:  len(campaigns),
			TotalVolunteers: volunteers,
		},
	}, nil
}
