package dao

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func insertUser(t *testing.T, db *gorm.DB, email string) User {
	t.Helper()
	user, err := NewUserDAO(db).Insert(context.Background(), User{
		Email:    email,
		Password: "hash",
		Name:     "Volunteer " + email,
		Phone:    "555-0100",
		Location: "Pune",
	})
	require.NoError(t, err)
	return user
}

func insertCampaign(t *testing.T, db *gorm.DB, title string, needed int) Campaign {
	t.Helper()
	campaign, err := NewCampaignDAO(db).Insert(context.Background(), Campaign{
		Title:            title,
		Description:      "Description of " + title,
		Category:         "cleanup",
		Location:         "Mumbai Beach",
		Date:             time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		VolunteersNeeded: needed,
		Status:           "upcoming",
		Requirements:     datatypes.JSON(`[]`),
	})
	require.NoError(t, err)
	return campaign
}

func TestUserDAO_InsertDuplicateEmail(t *testing.T) {
	db := freshDB(t)
	insertUser(t, db, "asha@example.com")

	_, err := NewUserDAO(db).Insert(context.Background(), User{
		Email:    "asha@example.com",
		Password: "hash",
		Name:     "Other",
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestOrganizationDAO_InsertDuplicateEmail(t *testing.T) {
	db := freshDB(t)
	orgs := NewOrganizationDAO(db)

	_, err := orgs.Insert(context.Background(), Organization{Email: "ngo@example.com", Password: "hash", Name: "NGO", Contact: "555"})
	require.NoError(t, err)

	_, err = orgs.Insert(context.Background(), Organization{Email: "ngo@example.com", Password: "hash", Name: "NGO 2", Contact: "556"})
	assert.ErrorIs(t, err, ErrOrganizationEmailExists)
}

func TestCampaignDAO_ListPaginates(t *testing.T) {
	db := freshDB(t)
	for i := 0; i < 21; i++ {
		insertCampaign(t, db, fmt.Sprintf("Campaign %02d", i), 10)
	}

	campaigns, total, err := NewCampaignDAO(db).List(context.Background(), NewCampaignFilter(), 9, 18)
	require.NoError(t, err)

	assert.Equal(t, int64(21), total)
	assert.Len(t, campaigns, 3)
}

func TestCampaignDAO_ListFilters(t *testing.T) {
	db := freshDB(t)
	insertCampaign(t, db, "Beach Cleanup", 10)
	insertCampaign(t, db, "Tree Planting", 10)
	insertCampaign(t, db, "100% Recycling", 10)

	ctx := context.Background()
	campaigns := NewCampaignDAO(db)

	found, total, err := campaigns.List(ctx, NewCampaignFilter().Search("BEACH"), 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Beach Cleanup", found[0].Title)

	_, total, err = campaigns.List(ctx, NewCampaignFilter().Search("%"), 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = campaigns.List(ctx, NewCampaignFilter().Category("tree-planting"), 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	_, total, err = campaigns.List(ctx, NewCampaignFilter().Location("mumbai"), 9, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestParticipationDAO_ReserveSeatUnderContention(t *testing.T) {
	db := freshDB(t)
	campaign := insertCampaign(t, db, "Small Campaign", 5)

	const volunteers = 20
	users := make([]User, volunteers)
	for i := range users {
		users[i] = insertUser(t, db, fmt.Sprintf("v%d@example.com", i))
	}

	participation := NewParticipationDAO(db)
	var (
		wg     sync.WaitGroup
		joined atomic.Int32
		full   atomic.Int32
	)
	for _, user := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			err := participation.Transaction(context.Background(), func(tx *ParticipationDAO) error {
				if err := tx.ReserveSeat(context.Background(), campaign.ID); err != nil {
					return err
				}
				_, err := tx.InsertMembership(context.Background(), Membership{CampaignID: campaign.ID, UserID: userID})
				return err
			})
			switch {
			case err == nil:
				joined.Add(1)
			case errors.Is(err, ErrCampaignFull):
				full.Add(1)
			default:
				t.Errorf("unexpected join error: %v", err)
			}
		}(user.ID)
	}
	wg.Wait()

	assert.Equal(t, int32(5), joined.Load())
	assert.Equal(t, int32(volunteers-5), full.Load())

	reloaded, err := participation.FindCampaign(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.VolunteersJoined)
}

func TestParticipationDAO_DuplicateMembershipRollsBackSeat(t *testing.T) {
	db := freshDB(t)
	campaign := insertCampaign(t, db, "Campaign", 10)
	user := insertUser(t, db, "asha@example.com")
	ctx := context.Background()
	participation := NewParticipationDAO(db)

	join := func() error {
		return participation.Transaction(ctx, func(tx *ParticipationDAO) error {
			if err := tx.ReserveSeat(ctx, campaign.ID); err != nil {
				return err
			}
			_, err := tx.InsertMembership(ctx, Membership{CampaignID: campaign.ID, UserID: user.ID})
			return err
		})
	}

	require.NoError(t, join())
	assert.ErrorIs(t, join(), ErrMembershipExists)

	reloaded, err := participation.FindCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.VolunteersJoined)
}

func TestParticipationDAO_ActivityCreditsPoints(t *testing.T) {
	db := freshDB(t)
	campaign := insertCampaign(t, db, "Campaign", 10)
	user := insertUser(t, db, "asha@example.com")
	ctx := context.Background()
	participation := NewParticipationDAO(db)

	_, err := participation.InsertActivity(ctx, Activity{
		UserID:       user.ID,
		CampaignID:   &campaign.ID,
		ActivityType: "campaign_joined",
		PointsEarned: 10,
	})
	require.NoError(t, err)

	points, err := participation.FindEcoPoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, points)

	activities, err := NewUserDAO(db).FindActivities(ctx, user.ID, 50)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.NotNil(t, activities[0].CampaignTitle)
	assert.Equal(t, "Campaign", *activities[0].CampaignTitle)
}

func TestParticipationDAO_CompletionVerification(t *testing.T) {
	db := freshDB(t)
	campaign := insertCampaign(t, db, "Campaign", 10)
	user := insertUser(t, db, "asha@example.com")
	org, err := NewOrganizationDAO(db).Insert(context.Background(), Organization{Email: "ngo@example.com", Password: "hash", Name: "NGO", Contact: "555"})
	require.NoError(t, err)

	ctx := context.Background()
	participation := NewParticipationDAO(db)

	_, err = participation.FindCompletion(ctx, campaign.ID, user.ID)
	assert.ErrorIs(t, err, ErrCompletionNotFound)

	_, err = participation.InsertCompletion(ctx, Completion{CampaignID: campaign.ID, UserID: user.ID})
	require.NoError(t, err)
	_, err = participation.InsertCompletion(ctx, Completion{CampaignID: campaign.ID, UserID: user.ID})
	assert.ErrorIs(t, err, ErrCompletionExists)

	require.NoError(t, participation.MarkCompletionVerified(ctx, campaign.ID, user.ID, org.ID))
	assert.ErrorIs(t, participation.MarkCompletionVerified(ctx, campaign.ID, user.ID, org.ID), ErrCompletionVerified)

	completion, err := participation.FindCompletion(ctx, campaign.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, completion.Verified)
	require.NotNil(t, completion.VerifiedBy)
	assert.Equal(t, org.ID, *completion.VerifiedBy)
}

func TestParticipationDAO_InsertBadgeIsIdempotent(t *testing.T) {
	db := freshDB(t)
	user := insertUser(t, db, "asha@example.com")
	ctx := context.Background()
	participation := NewParticipationDAO(db)

	badge := UserBadge{UserID: user.ID, BadgeName: "First Steps", BadgeIcon: "seedling"}

	granted, err := participation.InsertBadge(ctx, badge)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = participation.InsertBadge(ctx, badge)
	require.NoError(t, err)
	assert.False(t, granted)

	badges, err := NewUserDAO(db).FindBadges(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

func TestSessionDAO_DeleteExpired(t *testing.T) {
	db := freshDB(t)
	sessions := NewSessionDAO(db)
	ctx := context.Background()
	now := time.Now().UTC()

	live, err := sessions.Insert(ctx, Session{ID: uuid.NewString(), Kind: "user", PrincipalID: 1, ExpiresAt: now.Add(time.Hour), CreatedAt: now})
	require.NoError(t, err)
	_, err = sessions.Insert(ctx, Session{ID: uuid.NewString(), Kind: "user", PrincipalID: 2, ExpiresAt: now.Add(-time.Minute), CreatedAt: now})
	require.NoError(t, err)

	purged, err := sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = sessions.FindByID(ctx, live.ID)
	assert.NoError(t, err)
}

func TestSeedCampaigns_OnlyWhenEmpty(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()

	inserted, err := SeedCampaigns(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = SeedCampaigns(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}
