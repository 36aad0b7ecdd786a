package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
)

var (
	ErrOrganizationEmailExists = dao.ErrOrganizationEmailExists
	ErrOrganizationNotFound    = dao.ErrOrganizationNotFound
)

type OrganizationDAO interface {
	Insert(ctx context.Context, org dao.Organization) (dao.Organization, error)
	FindByID(ctx context.Context, id uint) (dao.Organization, error)
	FindByEmail(ctx context.Context, email string) (dao.Organization, error)
	FindCampaigns(ctx context.Context, organizationID uint) ([]dao.Campaign, error)
	CountVolunteers(ctx context.Context, organizationID uint) (int64, error)
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	created, err := r.dao.Insert(ctx, dao.Organization{
		Email:       org.Email,
		Password:    org.Password,
		Name:        org.Name,
		Description: org.Description,
		Contact:     org.Contact,
		Address:     org.Address,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return organizationDaoToDomain(created), nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uint) (domain.Organization, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return organizationDaoToDomain(found), nil
}

func (r *OrganizationRepository) FindByEmail(ctx context.Context, email string) (domain.Organization, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return organizationDaoToDomain(found), nil
}

func (r *OrganizationRepository) FindCampaigns(ctx context.Context, organizationID uint) ([]domain.Campaign, error) {
	found, err := r.dao.FindCampaigns(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCampaigns -> %w", err)
	}

	return campaignsDaoToDomain(found), nil
}

func (r *OrganizationRepository) CountVolunteers(ctx context.Context, organizationID uint) (int64, error) {
	count, err := r.dao.CountVolunteers(ctx, organizationID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountVolunteers -> %w", err)
	}

	return count, nil
}

func organizationDaoToDomain(o dao.Organization) domain.Organization {
	return domain.Organization{
		ID:          o.ID,
		Email:       o.Email,
		Password:    o.Password,
		Name:        o.Name,
		Description: o.Description,
		Contact:     o.Contact,
		Address:     o.Address,
		Verified:    o.Verified,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
