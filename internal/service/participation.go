package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository"
)

const (
	JoinPoints         = 10
	CompletionPoints   = 20
	VerificationPoints = 10
)

var (
	ErrCampaignFull     = repository.ErrCampaignFull
	ErrAlreadyJoined    = repository.ErrMembershipExists
	ErrNotJoined        = repository.ErrMembershipNotFound
	ErrAlreadyCompleted = repository.ErrCompletionExists
	ErrNotCompleted     = repository.ErrCompletionNotFound
	ErrAlreadyVerified  = repository.ErrCompletionVerified
	ErrAccessDenied     = errors.New("access denied")
)

type ParticipationRepository interface {
	InTx(ctx context.Context, fn func(store repository.ParticipationStore) error) error
}

// ParticipationService moves a (campaign, user) pair through
// joined -> completed -> verified. Each step runs in one transaction: the
// state change, the activity record, the points credit and the badges land
// together or not at all.
type ParticipationService struct {
	repo ParticipationRepository
}

func NewParticipationService(repo ParticipationRepository) *ParticipationService {
	return &ParticipationService{
		repo: repo,
	}
}

func (s *ParticipationService) Join(ctx context.Context, campaignID, userID uint) (domain.ParticipationResult, error) {
	var result domain.ParticipationResult

	err := s.repo.InTx(ctx, func(store repository.ParticipationStore) error {
		campaign, err := store.FindCampaign(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("store.FindCampaign -> %w", err)
		}
		if campaign.IsFull() {
			return ErrCampaignFull
		}

		_, err = store.FindMembership(ctx, campaignID, userID)
		if err == nil {
			return ErrAlreadyJoined
		}
		if !errors.Is(err, ErrNotJoined) {
			return fmt.Errorf("store.FindMembership -> %w", err)
		}

		// The counter may have moved since FindCampaign; ReserveSeat is the
		// authoritative capacity check.
		if err = store.ReserveSeat(ctx, campaignID); err != nil {
			return fmt.Errorf("store.ReserveSeat -> %w", err)
		}

		if _, err = store.CreateMembership(ctx, campaignID, userID); err != nil {
			return fmt.Errorf("store.CreateMembership -> %w", err)
		}

		badges, err := s.reward(ctx, store, userID, campaign, domain.ActivityCampaignJoined, JoinPoints,
			"Joined campaign: "+campaign.Title)
		if err != nil {
			return err
		}

		result = domain.ParticipationResult{
			CampaignID:    campaignID,
			UserID:        userID,
			Status:        domain.MembershipJoined,
			PointsAwarded: JoinPoints,
			BadgesAwarded: badges,
		}

		return nil
	})
	if err != nil {
		return domain.ParticipationResult{}, fmt.Errorf("s.repo.InTx -> %w", err)
	}

	zap.L().Info("volunteer joined campaign", zap.Uint("campaign_id", campaignID), zap.Uint("user_id", userID))

	return result, nil
}

func (s *ParticipationService) ReportCompletion(ctx context.Context, campaignID, userID uint) (domain.ParticipationResult, error) {
	var result domain.ParticipationResult

	err := s.repo.InTx(ctx, func(store repository.ParticipationStore) error {
		campaign, err := store.FindCampaign(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("store.FindCampaign -> %w", err)
		}

		if _, err = store.FindMembership(ctx, campaignID, userID); err != nil {
			return fmt.Errorf("store.FindMembership -> %w", err)
		}

		_, err = store.FindCompletion(ctx, campaignID, userID)
		if err == nil {
			return ErrAlreadyCompleted
		}
		if !errors.Is(err, ErrNotCompleted) {
			return fmt.Errorf("store.FindCompletion -> %w", err)
		}

		if _, err = store.CreateCompletion(ctx, campaignID, userID); err != nil {
			return fmt.Errorf("store.CreateCompletion -> %w", err)
		}

		if err = store.UpdateMembershipStatus(ctx, campaignID, userID, domain.MembershipCompleted); err != nil {
			return fmt.Errorf("store.UpdateMembershipStatus -> %w", err)
		}

		badges, err := s.reward(ctx, store, userID, campaign, domain.ActivityCampaignCompleted, CompletionPoints,
			"Completed campaign: "+campaign.Title)
		if err != nil {
			return err
		}

		result = domain.ParticipationResult{
			CampaignID:    campaignID,
			UserID:        userID,
			Status:        domain.MembershipCompleted,
			PointsAwarded: CompletionPoints,
			BadgesAwarded: badges,
		}

		return nil
	})
	if err != nil {
		return domain.ParticipationResult{}, fmt.Errorf("s.repo.InTx -> %w", err)
	}

	zap.L().Info("volunteer reported completion", zap.Uint("campaign_id", campaignID), zap.Uint("user_id", userID))

	return result, nil
}

// Verify confirms a volunteer's completion on behalf of the organization
// owning the campaign.
func (s *ParticipationService) Verify(ctx context.Context, campaignID, userID, organizationID uint) (domain.ParticipationResult, error) {
	var result domain.ParticipationResult

	err := s.repo.InTx(ctx, func(store repository.ParticipationStore) error {
		campaign, err := store.FindCampaign(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("store.FindCampaign -> %w", err)
		}
		if !campaign.OwnedBy(organizationID) {
			return ErrAccessDenied
		}

		completion, err := store.FindCompletion(ctx, campaignID, userID)
		if err != nil {
			return fmt.Errorf("store.FindCompletion -> %w", err)
		}
		if completion.Verified {
			return ErrAlreadyVerified
		}

		if err = store.MarkVerified(ctx, campaignID, userID, organizationID); err != nil {
			return fmt.Errorf("store.MarkVerified -> %w", err)
		}

		if err = store.UpdateMembershipStatus(ctx, campaignID, userID, domain.MembershipVerified); err != nil {
			return fmt.Errorf("store.UpdateMembershipStatus -> %w", err)
		}

		badges, err := s.reward(ctx, store, userID, campaign, domain.ActivityCampaignVerified, VerificationPoints,
			"Campaign verified by NGO: "+campaign.Title)
		if err != nil {
			return err
		}

		result = domain.ParticipationResult{
			CampaignID:    campaignID,
			UserID:        userID,
			Status:        domain.MembershipVerified,
			PointsAwarded: VerificationPoints,
			BadgesAwarded: badges,
		}

		return nil
	})
	if err != nil {
		return domain.ParticipationResult{}, fmt.Errorf("s.repo.InTx -> %w", err)
	}

	zap.L().Info("completion verified",
		zap.Uint("campaign_id", campaignID),
		zap.Uint("user_id", userID),
		zap.Uint("organization_id", organizationID))

	return result, nil
}

// reward logs the activity, credits its points and re-evaluates badges.
func (s *ParticipationService) reward(
	ctx context.Context,
	store repository.ParticipationStore,
	userID uint,
	campaign domain.Campaign,
	activityType domain.ActivityType,
	points int,
	description string,
) ([]domain.Badge, error) {
	campaignID := campaign.ID

	_, err := store.RecordActivity(ctx, domain.Activity{
		UserID:       userID,
		CampaignID:   &campaignID,
		Type:         activityType,
		Description:  description,
		PointsEarned: points,
	})
	if err != nil {
		return nil, fmt.Errorf("store.RecordActivity -> %w", err)
	}

	badges, err := AwardBadges(ctx, store, userID, &campaignID)
	if err != nil {
		return nil, fmt.Errorf("AwardBadges -> %w", err)
	}

	return badges, nil
}
