package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	CountMemberships(ctx context.Context, userID uint) (int64, error)
	CountCompletions(ctx context.Context, userID uint) (int64, error)
	FindBadges(ctx context.Context, userID uint) ([]dao.UserBadge, error)
	FindActiveCampaigns(ctx context.Context, userID uint, limit int) ([]dao.Campaign, error)
	FindActivities(ctx context.Context, userID uint, limit int) ([]dao.ActivityWithCampaign, error)
	Leaderboard(ctx context.Context, limit int) ([]dao.LeaderboardRow, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		Phone:    user.Phone,
		Location: user.Location,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) Stats(ctx context.Context, user domain.User) (domain.UserStats, error) {
	joined, err := r.dao.CountMemberships(ctx, user.ID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("r.dao.CountMemberships -> %w", err)
	}

	completed, err := r.dao.CountCompletions(ctx, user.ID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("r.dao.CountCompletions -> %w", err)
	}

	badges, err := r.dao.FindBadges(ctx, user.ID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("r.dao.FindBadges -> %w", err)
	}

	return domain.UserStats{
		CampaignsJoined:    joined,
		CampaignsCompleted: completed,
		EcoPoints:          user.EcoPoints,
		BadgesCount:        int64(len(badges)),
		ImpactScore:        domain.ImpactScore(joined, user.EcoPoints),
	}, nil
}

func (r *UserRepository) FindBadges(ctx context.Context, userID uint) ([]domain.Badge, error) {
	found, err := r.dao.FindBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBadges -> %w", err)
	}

	badges := make([]domain.Badge, len(found))
	for i, b := range found {
		badges[i] = badgeDaoToDomain(b)
	}

	return badges, nil
}

func (r *UserRepository) FindActiveCampaigns(ctx context.Context, userID uint, limit int) ([]domain.Campaign, error) {
	found, err := r.dao.FindActiveCampaigns(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveCampaigns -> %w", err)
	}

	return campaignsDaoToDomain(found), nil
}

func (r *UserRepository) FindActivities(ctx context.Context, userID uint, limit int) ([]domain.Activity, error) {
	found, err := r.dao.FindActivities(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActivities -> %w", err)
	}

	activities := make([]domain.Activity, len(found))
	for i, a := range found {
		activities[i] = activityDaoToDomain(a.Activity)
		if a.CampaignTitle != nil {
			activities[i].CampaignTitle = *a.CampaignTitle
		}
	}

	return activities, nil
}

func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.dao.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Leaderboard -> %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{
			UserID:             row.ID,
			Name:               row.Name,
			Location:           row.Location,
			EcoPoints:          row.EcoPoints,
			BadgeCount:         row.BadgeCount,
			CampaignsCompleted: row.CampaignsCompleted,
		}
	}

	return entries, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Phone:     u.Phone,
		Location:  u.Location,
		EcoPoints: u.EcoPoints,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func badgeDaoToDomain(b dao.UserBadge) domain.Badge {
	return domain.Badge{
		Name:        b.BadgeName,
		Icon:        b.BadgeIcon,
		Description: b.BadgeDescription,
		EarnedAt:    b.EarnedAt,
	}
}

func activityDaoToDomain(a dao.Activity) domain.Activity {
	return domain.Activity{
		ID:           a.ID,
		UserID:       a.UserID,
		CampaignID:   a.CampaignID,
		Type:         domain.ActivityType(a.ActivityType),
		Description:  a.Description,
		PointsEarned: a.PointsEarned,
		CreatedAt:    a.CreatedAt,
	}
}
