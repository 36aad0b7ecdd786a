package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrganizationEmailExists = errors.New("organization already exists")
	ErrOrganizationNotFound    = errors.New("organization not found")
)

type Organization struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name        string `gorm:"not null"`
	Description string
	Contact     string `gorm:"not null"`
	Address     string
	Verified    bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

func (d *OrganizationDAO) Insert(ctx context.Context, org Organization) (Organization, error) {
	result := d.db.WithContext(ctx).Create(&org)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_organizations_email") {
			return Organization{}, ErrOrganizationEmailExists
		}

		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) FindByID(ctx context.Context, id uint) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}

		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) FindByEmail(ctx context.Context, email string) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Organization{}, ErrOrganizationNotFound
		}

		return Organization{}, result.Error
	}

	return org, nil
}

func (d *OrganizationDAO) FindCampaigns(ctx context.Context, organizationID uint) ([]Campaign, error) {
	var campaigns []Campaign
	err := d.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC, id DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// CountVolunteers counts distinct users across all campaigns of the organization.
func (d *OrganizationDAO) CountVolunteers(ctx context.Context, organizationID uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&Membership{}).
		Joins("INNER JOIN campaigns ON campaigns.id = campaign_volunteers.campaign_id").
		Where("campaigns.organization_id = ?", organizationID).
		Distinct("campaign_volunteers.user_id").
		Count(&count).Error
	return count, err
}
