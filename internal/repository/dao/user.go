package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name      string `gorm:"not null"`
	Phone     string `gorm:"not null"`
	Location  string `gorm:"not null"`
	EcoPoints int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserBadge struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           uint   `gorm:"not null;uniqueIndex:idx_user_badges_user_badge"`
	BadgeName        string `gorm:"not null;uniqueIndex:idx_user_badges_user_badge"`
	BadgeIcon        string
	BadgeDescription string
	CampaignID       *uint
	EarnedAt         time.Time `gorm:"not null;autoCreateTime"`

	User     *User     `gorm:"foreignKey:UserID"`
	Campaign *Campaign `gorm:"foreignKey:CampaignID"`
}

type Activity struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"not null;index"`
	CampaignID   *uint  `gorm:"index"`
	ActivityType string `gorm:"not null"`
	Description  string
	PointsEarned int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;index"`

	User     *User     `gorm:"foreignKey:UserID"`
	Campaign *Campaign `gorm:"foreignKey:CampaignID"`
}

// ActivityWithCampaign is an Activity joined with the title of its campaign.
type ActivityWithCampaign struct {
	Activity
	CampaignTitle *string
}

type LeaderboardRow struct {
	ID                 uint
	Name               string
	Location           string
	EcoPoints          int
	BadgeCount         int64
	CampaignsCompleted int64
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_users_email") {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) CountMemberships(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Membership{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (d *UserDAO) CountCompletions(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Completion{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (d *UserDAO) FindBadges(ctx context.Context, userID uint) ([]UserBadge, error) {
	var badges []UserBadge
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC, id ASC").
		Find(&badges).Error
	return badges, err
}

// FindActiveCampaigns returns the campaigns the user joined that are not
// completed yet, soonest first.
func (d *UserDAO) FindActiveCampaigns(ctx context.Context, userID uint, limit int) ([]Campaign, error) {
	var campaigns []Campaign
	err := d.db.WithContext(ctx).
		Joins("INNER JOIN campaign_volunteers cv ON cv.campaign_id = campaigns.id").
		Where("cv.user_id = ? AND campaigns.status <> ?", userID, "completed").
		Order("campaigns.date ASC").
		Limit(limit).
		Find(&campaigns).Error
	return campaigns, err
}

func (d *UserDAO) FindActivities(ctx context.Context, userID uint, limit int) ([]ActivityWithCampaign, error) {
	var activities []ActivityWithCampaign
	err := d.db.WithContext(ctx).
		Model(&Activity{}).
		Select("activities.*, campaigns.title AS campaign_title").
		Joins("LEFT JOIN campaigns ON campaigns.id = activities.campaign_id").
		Where("activities.user_id = ?", userID).
		Order("activities.created_at DESC, activities.id DESC").
		Limit(limit).
		Scan(&activities).Error
	return activities, err
}

func (d *UserDAO) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := d.db.WithContext(ctx).
		Model(&User{}).
		Select(`users.id, users.name, users.location, users.eco_points,
			COUNT(DISTINCT user_badges.id) AS badge_count,
			COUNT(DISTINCT campaign_completions.id) AS campaigns_completed`).
		Joins("LEFT JOIN user_badges ON user_badges.user_id = users.id").
		Joins("LEFT JOIN campaign_completions ON campaign_completions.user_id = users.id").
		Group("users.id").
		Order("users.eco_points DESC, campaigns_completed DESC, users.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}
