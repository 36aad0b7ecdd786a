package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/greenspark-api/internal/domain"
)

type fakeDashboardRepo struct {
	limits map[string]int
}

func (f *fakeDashboardRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	if id != 1 {
		return domain.User{}, ErrUserNotFound
	}
	return domain.User{ID: 1, Name: "Asha", EcoPoints: 130}, nil
}

func (f *fakeDashboardRepo) Stats(_ context.Context, user domain.User) (domain.UserStats, error) {
	return domain.UserStats{
		CampaignsJoined: 3,
		EcoPoints:       user.EcoPoints,
		ImpactScore:     domain.ImpactScore(3, user.EcoPoints),
	}, nil
}

func (f *fakeDashboardRepo) FindBadges(context.Context, uint) ([]domain.Badge, error) {
	return []domain.Badge{{Name: "First Steps"}}, nil
}

func (f *fakeDashboardRepo) FindActiveCampaigns(_ context.Context, _ uint, limit int) ([]domain.Campaign, error) {
	f.limits["active"] = limit
	return []domain.Campaign{{ID: 1}}, nil
}

func (f *fakeDashboardRepo) FindActivities(_ context.Context, _ uint, limit int) ([]domain.Activity, error) {
	f.limits["activities"] = limit
	return []domain.Activity{}, nil
}

func (f *fakeDashboardRepo) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	f.limits["leaderboard"] = limit
	return []domain.LeaderboardEntry{}, nil
}

func TestUserService_Dashboard(t *testing.T) {
	repo := &fakeDashboardRepo{limits: map[string]int{}}
	svc := NewUserService(repo)

	dashboard, err := svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Asha", dashboard.User.Name)
	assert.Equal(t, 5, repo.limits["active"])
	assert.Equal(t, 73, dashboard.Stats.ImpactScore)
	assert.Len(t, dashboard.Badges, 1)

	_, err = svc.Dashboard(context.Background(), 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_FeedLimits(t *testing.T) {
	repo := &fakeDashboardRepo{limits: map[string]int{}}
	svc := NewUserService(repo)

	_, err := svc.Activities(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Leaderboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, repo.limits["activities"])
	assert.Equal(t, 50, repo.limits["leaderboard"])
}

type fakeOrgDashboardRepo struct{}

func (fakeOrgDashboardRepo) FindByID(_ context.Context, id uint) (domain.Organization, error) {
	if id != testOrgID {
		return domain.Organization{}, ErrOrganizationNotFound
	}
	return domain.Organization{ID: testOrgID, Name: "Ocean NGO"}, nil
}

func (fakeOrgDashboardRepo) FindCampaigns(context.Context, uint) ([]domain.Campaign, error) {
	return []domain.Campaign{{ID: 2}, {ID: 1}}, nil
}

func (fakeOrgDashboardRepo) CountVolunteers(context.Context, uint) (int64, error) {
	return 4, nil
}

func TestOrganizationService_Dashboard(t *testing.T) {
	svc := NewOrganizationService(fakeOrgDashboardRepo{})

	dashboard, err := svc.Dashboard(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Stats.TotalCampaigns)
	assert.Equal(t, int64(4), dashboard.Stats.TotalVolunteers)

	_, err = svc.Dashboard(context.Background(), 1)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}
