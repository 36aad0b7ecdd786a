package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
)

type Campaign struct {
	ID               uint   `gorm:"primaryKey"`
	Slug             string `gorm:"index"`
	Title            string `gorm:"not null"`
	Description      string `gorm:"not null"`
	ShortDescription string
	Category         string    `gorm:"not null;index"`
	Location         string    `gorm:"not null"`
	Date             time.Time `gorm:"type:date;not null"`
	Time             *string
	VolunteersNeeded int    `gorm:"not null"`
	VolunteersJoined int    `gorm:"not null;default:0"`
	Status           string `gorm:"not null;default:upcoming"`
	Featured         bool   `gorm:"not null;default:false"`
	Image            *string
	OrganizationID   *uint          `gorm:"index"`
	Organization     *Organization  `gorm:"foreignKey:OrganizationID"`
	Requirements     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RosterRow struct {
	UserID       uint
	Name         string
	Email        string
	Status       string
	JoinedAt     time.Time
	CompletionID *uint
	Verified     *bool
}

type CampaignDAO struct {
	db *gorm.DB
}

func NewCampaignDAO(db *gorm.DB) *CampaignDAO {
	return &CampaignDAO{
		db: db,
	}
}

func (d *CampaignDAO) Insert(ctx context.Context, campaign Campaign) (Campaign, error) {
	if err := d.db.WithContext(ctx).Create(&campaign).Error; err != nil {
		return Campaign{}, err
	}

	return campaign, nil
}

func (d *CampaignDAO) FindByID(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).Preload("Organization").First(&campaign, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

// List returns one page of campaigns matching the filter, featured first then
// by ascending date, along with the total number of matches.
func (d *CampaignDAO) List(ctx context.Context, filter *CampaignFilter, limit, offset int) ([]Campaign, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&Campaign{}).Scopes(filter.Scopes()...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []Campaign
	err := d.db.WithContext(ctx).
		Scopes(filter.Scopes()...).
		Order("campaigns.featured DESC, campaigns.date ASC, campaigns.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (d *CampaignDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Campaign{}).Count(&count).Error
	return count, err
}

func (d *CampaignDAO) FindVolunteerNames(ctx context.Context, campaignID uint, limit int) ([]string, error) {
	var names []string
	err := d.db.WithContext(ctx).
		Model(&User{}).
		Joins("INNER JOIN campaign_volunteers cv ON cv.user_id = users.id").
		Where("cv.campaign_id = ?", campaignID).
		Order("cv.joined_at ASC, cv.id ASC").
		Limit(limit).
		Pluck("users.name", &names).Error
	return names, err
}

func (d *CampaignDAO) IsMember(ctx context.Context, campaignID, userID uint) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&Membership{}).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Count(&count).Error
	return count > 0, err
}

// FindRoster lists the volunteers of a campaign with their completion state,
// latest joins first.
func (d *CampaignDAO) FindRoster(ctx context.Context, campaignID uint) ([]RosterRow, error) {
	var rows []RosterRow
	err := d.db.WithContext(ctx).
		Model(&Membership{}).
		Select(`users.id AS user_id, users.name, users.email, campaign_volunteers.status,
			campaign_volunteers.joined_at, cc.id AS completion_id, cc.verified`).
		Joins("INNER JOIN users ON users.id = campaign_volunteers.user_id").
		Joins("LEFT JOIN campaign_completions cc ON cc.campaign_id = campaign_volunteers.campaign_id AND cc.user_id = campaign_volunteers.user_id").
		Where("campaign_volunteers.campaign_id = ?", campaignID).
		Order("campaign_volunteers.joined_at DESC, campaign_volunteers.id DESC").
		Scan(&rows).Error
	return rows, err
}
