package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCampaignFull       = errors.New("campaign is full")
	ErrMembershipExists   = errors.New("user already joined this campaign")
	ErrMembershipNotFound = errors.New("user has not joined this campaign")
	ErrCompletionExists   = errors.New("campaign already marked as completed")
	ErrCompletionNotFound = errors.New("campaign not marked as completed")
	ErrCompletionVerified = errors.New("completion already verified")
)

const (
	membershipUniqueIndex = "idx_campaign_volunteers_campaign_user"
	completionUniqueIndex = "idx_campaign_completions_campaign_user"
)

type Membership struct {
	ID         uint      `gorm:"primaryKey"`
	CampaignID uint      `gorm:"not null;uniqueIndex:idx_campaign_volunteers_campaign_user"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_campaign_volunteers_campaign_user;index"`
	Status     string    `gorm:"not null;default:joined"`
	JoinedAt   time.Time `gorm:"not null;autoCreateTime"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID"`
	User     *User     `gorm:"foreignKey:UserID"`
}

func (Membership) TableName() string {
	return "campaign_volunteers"
}

type Completion struct {
	ID          uint      `gorm:"primaryKey"`
	CampaignID  uint      `gorm:"not null;uniqueIndex:idx_campaign_completions_campaign_user"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_campaign_completions_campaign_user;index"`
	Verified    bool      `gorm:"not null;default:false"`
	VerifiedBy  *uint     `gorm:"index"`
	CompletedAt time.Time `gorm:"not null;autoCreateTime"`

	Campaign     *Campaign     `gorm:"foreignKey:CampaignID"`
	User         *User         `gorm:"foreignKey:UserID"`
	Organization *Organization `gorm:"foreignKey:VerifiedBy"`
}

func (Completion) TableName() string {
	return "campaign_completions"
}

// ParticipationDAO holds the statements of the join/complete/verify workflow.
// Use Transaction to run several of them as one unit.
type ParticipationDAO struct {
	db *gorm.DB
}

func NewParticipationDAO(db *gorm.DB) *ParticipationDAO {
	return &ParticipationDAO{
		db: db,
	}
}

func (d *ParticipationDAO) Transaction(ctx context.Context, fn func(tx *ParticipationDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewParticipationDAO(tx))
	})
}

func (d *ParticipationDAO) FindCampaign(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).First(&campaign, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

// ReserveSeat increments volunteers_joined only while it is below capacity.
// The check and the increment are one statement, so concurrent joins cannot
// push the counter past volunteers_needed.
func (d *ParticipationDAO) ReserveSeat(ctx context.Context, campaignID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Campaign{}).
		Where("id = ? AND volunteers_joined < volunteers_needed", campaignID).
		UpdateColumn("volunteers_joined", gorm.Expr("volunteers_joined + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampaignFull
	}

	return nil
}

func (d *ParticipationDAO) FindMembership(ctx context.Context, campaignID, userID uint) (Membership, error) {
	var membership Membership

	result := d.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Limit(1).
		Find(&membership)
	if result.Error != nil {
		return Membership{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Membership{}, ErrMembershipNotFound
	}

	return membership, nil
}

func (d *ParticipationDAO) InsertMembership(ctx context.Context, membership Membership) (Membership, error) {
	if err := d.db.WithContext(ctx).Create(&membership).Error; err != nil {
		if isUniqueViolation(err, membershipUniqueIndex) {
			return Membership{}, ErrMembershipExists
		}

		return Membership{}, err
	}

	return membership, nil
}

func (d *ParticipationDAO) UpdateMembershipStatus(ctx context.Context, campaignID, userID uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Membership{}).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

func (d *ParticipationDAO) FindCompletion(ctx context.Context, campaignID, userID uint) (Completion, error) {
	var completion Completion

	result := d.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Limit(1).
		Find(&completion)
	if result.Error != nil {
		return Completion{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Completion{}, ErrCompletionNotFound
	}

	return completion, nil
}

func (d *ParticipationDAO) InsertCompletion(ctx context.Context, completion Completion) (Completion, error) {
	if err := d.db.WithContext(ctx).Create(&completion).Error; err != nil {
		if isUniqueViolation(err, completionUniqueIndex) {
			return Completion{}, ErrCompletionExists
		}

		return Completion{}, err
	}

	return completion, nil
}

// MarkCompletionVerified flips an unverified completion to verified. It fails
// with ErrCompletionVerified when another request verified it first.
func (d *ParticipationDAO) MarkCompletionVerified(ctx context.Context, campaignID, userID, organizationID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Completion{}).
		Where("campaign_id = ? AND user_id = ? AND verified = ?", campaignID, userID, false).
		Updates(map[string]any{"verified": true, "verified_by": organizationID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompletionVerified
	}

	return nil
}

// InsertActivity appends to the activity log and credits the points to the
// user. Run it inside Transaction so both land or neither does.
func (d *ParticipationDAO) InsertActivity(ctx context.Context, activity Activity) (Activity, error) {
	if err := d.db.WithContext(ctx).Create(&activity).Error; err != nil {
		return Activity{}, err
	}

	if activity.PointsEarned > 0 {
		result := d.db.WithContext(ctx).
			Model(&User{}).
			Where("id = ?", activity.UserID).
			UpdateColumn("eco_points", gorm.Expr("eco_points + ?", activity.PointsEarned))
		if result.Error != nil {
			return Activity{}, result.Error
		}
		if result.RowsAffected == 0 {
			return Activity{}, ErrUserNotFound
		}
	}

	return activity, nil
}

func (d *ParticipationDAO) CountCompletions(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Completion{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (d *ParticipationDAO) FindEcoPoints(ctx context.Context, userID uint) (int, error) {
	var points []int
	err := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Pluck("eco_points", &points).Error
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, ErrUserNotFound
	}

	return points[0], nil
}

func (d *ParticipationDAO) HasBadge(ctx context.Context, userID uint, badgeName string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&UserBadge{}).
		Where("user_id = ? AND badge_name = ?", userID, badgeName).
		Count(&count).Error
	return count > 0, err
}

// InsertBadge grants a badge. A grant that already exists is left untouched.
func (d *ParticipationDAO) InsertBadge(ctx context.Context, badge UserBadge) (bool, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&badge)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
