package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

var badgeCatalogue = []domain.BadgeRule{
	{Metric: domain.MetricCampaignsCompleted, Threshold: 1, Badge: domain.Badge{Name: "First Steps", Icon: "seedling", Description: "Completed your first campaign"}},
	{Metric: domain.MetricCampaignsCompleted, Threshold: 5, Badge: domain.Badge{Name: "Eco Warrior", Icon: "shield-alt", Description: "Completed 5 campaigns"}},
	{Metric: domain.MetricCampaignsCompleted, Threshold: 10, Badge: domain.Badge{Name: "Green Champion", Icon: "trophy", Description: "Completed 10 campaigns"}},
	{Metric: domain.MetricCampaignsCompleted, Threshold: 25, Badge: domain.Badge{Name: "Environmental Hero", Icon: "medal", Description: "Completed 25 campaigns"}},
	{Metric: domain.MetricEcoPoints, Threshold: 100, Badge: domain.Badge{Name: "Point Collector", Icon: "coins", Description: "Earned 100 eco points"}},
	{Metric: domain.MetricEcoPoints, Threshold: 500, Badge: domain.Badge{Name: "Point Master", Icon: "star", Description: "Earned 500 eco points"}},
	{Metric: domain.MetricEcoPoints, Threshold: 1000, Badge: domain.Badge{Name: "Point Legend", Icon: "crown", Description: "Earned 1000 eco points"}},
}

type BadgeStore interface {
	UserProgress(ctx context.Context, userID uint) (domain.Progress, error)
	HasBadge(ctx context.Context, userID uint, badgeName string) (bool, error)
	GrantBadge(ctx context.Context, userID uint, badge domain.Badge, campaignID *uint) (bool, error)
}

// AwardBadges checks every rule against the user's current progress and
// grants each satisfied badge the user does not hold yet. Running it again
// with unchanged progress grants nothing. It returns the newly granted badges.
func AwardBadges(ctx context.Context, store BadgeStore, userID uint, campaignID *uint) ([]domain.Badge, error) {
	progress, err := store.UserProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.UserProgress -> %w", err)
	}

	awarded := []domain.Badge{}
	for _, rule := range badgeCatalogue {
		if !rule.Satisfied(progress) {
			continue
		}

		held, err := store.HasBadge(ctx, userID, rule.Badge.Name)
		if err != nil {
			return nil, fmt.Errorf("store.HasBadge -> %w", err)
		}
		if held {
			continue
		}

		granted, err := store.GrantBadge(ctx, userID, rule.Badge, campaignID)
		if err != nil {
			return nil, fmt.Errorf("store.GrantBadge -> %w", err)
		}
		if granted {
			awarded = append(awarded, rule.Badge)
		}
	}

	return awarded, nil
}
