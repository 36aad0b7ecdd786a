package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository"
)

const (
	dashboardActiveCampaigns = 5
	activityFeedSize         = 50
	leaderboardSize          = 50
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	Stats(ctx context.Context, user domain.User) (domain.UserStats, error)
	FindBadges(ctx context.Context, userID uint) ([]domain.Badge, error)
	FindActiveCampaigns(ctx context.Context, userID uint, limit int) ([]domain.Campaign, error)
	FindActivities(ctx context.Context, userID uint, limit int) ([]domain.Activity, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) Dashboard(ctx context.Context, userID uint) (domain.UserDashboard, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.UserDashboard{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	active, err := s.repo.FindActiveCampaigns(ctx, userID, dashboardActiveCampaigns)
	if err != nil {
		return domain.UserDashboard{}, fmt.Errorf("s.repo.FindActiveCampaigns -> %w", err)
	}

	stats, err := s.repo.Stats(ctx, user)
	if err != nil {
		return domain.UserDashboard{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	badges, err := s.repo.FindBadges(ctx, userID)
	if err != nil {
		return domain.UserDashboard{}, fmt.Errorf("s.repo.FindBadges -> %w", err)
	}

	return domain.UserDashboard{
		User:            user,
		ActiveCampaigns: active,
		Stats:           stats,
		Badges:          badges,
	}, nil
}

func (s *UserService) Activities(ctx context.Context, userID uint) ([]domain.Activity, error) {
	activities, err := s.repo.FindActivities(ctx, userID, activityFeedSize)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActivities -> %w", err)
	}

	return activities, nil
}

func (s *UserService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.repo.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Leaderboard -> %w", err)
	}

	return entries, nil
}
