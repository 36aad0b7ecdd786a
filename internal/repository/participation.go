package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
)

var (
	ErrCampaignFull       = dao.ErrCampaignFull
	ErrMembershipExists   = dao.ErrMembershipExists
	ErrMembershipNotFound = dao.ErrMembershipNotFound
	ErrCompletionExists   = dao.ErrCompletionExists
	ErrCompletionNotFound = dao.ErrCompletionNotFound
	ErrCompletionVerified = dao.ErrCompletionVerified
)

// ParticipationStore is the set of reads and writes a join, completion or
// verification needs. Every call made through one store shares a transaction.
type ParticipationStore interface {
	FindCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	ReserveSeat(ctx context.Context, campaignID uint) error
	FindMembership(ctx context.Context, campaignID, userID uint) (domain.Membership, error)
	CreateMembership(ctx context.Context, campaignID, userID uint) (domain.Membership, error)
	UpdateMembershipStatus(ctx context.Context, campaignID, userID uint, status domain.MembershipStatus) error
	FindCompletion(ctx context.Context, campaignID, userID uint) (domain.Completion, error)
	CreateCompletion(ctx context.Context, campaignID, userID uint) (domain.Completion, error)
	MarkVerified(ctx context.Context, campaignID, userID, organizationID uint) error
	RecordActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	UserProgress(ctx context.Context, userID uint) (domain.Progress, error)
	HasBadge(ctx context.Context, userID uint, badgeName string) (bool, error)
	GrantBadge(ctx context.Context, userID uint, badge domain.Badge, campaignID *uint) (bool, error)
}

type ParticipationDAO interface {
	Transaction(ctx context.Context, fn func(tx *dao.ParticipationDAO) error) error
}

type ParticipationRepository struct {
	dao ParticipationDAO
}

func NewParticipationRepository(dao ParticipationDAO) *ParticipationRepository {
	return &ParticipationRepository{
		dao: dao,
	}
}

// InTx runs fn inside one database transaction. Returning an error from fn
// rolls back everything fn wrote.
func (r *ParticipationRepository) InTx(ctx context.Context, fn func(store ParticipationStore) error) error {
	return r.dao.Transaction(ctx, func(tx *dao.ParticipationDAO) error {
		return fn(&participationStore{dao: tx})
	})
}

type participationStore struct {
	dao *dao.ParticipationDAO
}

func (s *participationStore) FindCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	found, err := s.dao.FindCampaign(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.dao.FindCampaign -> %w", err)
	}

	return campaignDaoToDomain(found), nil
}

func (s *participationStore) ReserveSeat(ctx context.Context, campaignID uint) error {
	if err := s.dao.ReserveSeat(ctx, campaignID); err != nil {
		return fmt.Errorf("s.dao.ReserveSeat -> %w", err)
	}

	return nil
}

func (s *participationStore) FindMembership(ctx context.Context, campaignID, userID uint) (domain.Membership, error) {
	found, err := s.dao.FindMembership(ctx, campaignID, userID)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("s.dao.FindMembership -> %w", err)
	}

	return membershipDaoToDomain(found), nil
}

func (s *participationStore) CreateMembership(ctx context.Context, campaignID, userID uint) (domain.Membership, error) {
	created, err := s.dao.InsertMembership(ctx, dao.Membership{
		CampaignID: campaignID,
		UserID:     userID,
		Status:     string(domain.MembershipJoined),
	})
	if err != nil {
		return domain.Membership{}, fmt.Errorf("s.dao.InsertMembership -> %w", err)
	}

	return membershipDaoToDomain(created), nil
}

func (s *participationStore) UpdateMembershipStatus(ctx context.Context, campaignID, userID uint, status domain.MembershipStatus) error {
	if err := s.dao.UpdateMembershipStatus(ctx, campaignID, userID, string(status)); err != nil {
		return fmt.Errorf("s.dao.UpdateMembershipStatus -> %w", err)
	}

	return nil
}

func (s *participationStore) FindCompletion(ctx context.Context, campaignID, userID uint) (domain.Completion, error) {
	found, err := s.dao.FindCompletion(ctx, campaignID, userID)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("s.dao.FindCompletion -> %w", err)
	}

	return completionDaoToDomain(found), nil
}

func (s *participationStore) CreateCompletion(ctx context.Context, campaignID, userID uint) (domain.Completion, error) {
	created, err := s.dao.InsertCompletion(ctx, dao.Completion{
		CampaignID: campaignID,
		UserID:     userID,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("s.dao.InsertCompletion -> %w", err)
	}

	return completionDaoToDomain(created), nil
}

func (s *participationStore) MarkVerified(ctx context.Context, campaignID, userID, organizationID uint) error {
	if err := s.dao.MarkCompletionVerified(ctx, campaignID, userID, organizationID); err != nil {
		return fmt.Errorf("s.dao.MarkCompletionVerified -> %w", err)
	}

	return nil
}

func (s *participationStore) RecordActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	created, err := s.dao.InsertActivity(ctx, dao.Activity{
		UserID:       activity.UserID,
		CampaignID:   activity.CampaignID,
		ActivityType: string(activity.Type),
		Description:  activity.Description,
		PointsEarned: activity.PointsEarned,
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("s.dao.InsertActivity -> %w", err)
	}

	return activityDaoToDomain(created), nil
}

func (s *participationStore) UserProgress(ctx context.Context, userID uint) (domain.Progress, error) {
	completed, err := s.dao.CountCompletions(ctx, userID)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("s.dao.CountCompletions -> %w", err)
	}

	points, err := s.dao.FindEcoPoints(ctx, userID)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("s.dao.FindEcoPoints -> %w", err)
	}

	return domain.Progress{
		CampaignsCompleted: completed,
		EcoPoints:          points,
	}, nil
}

func (s *participationStore) HasBadge(ctx context.Context, userID uint, badgeName string) (bool, error) {
	has, err := s.dao.HasBadge(ctx, userID, badgeName)
	if err != nil {
		return false, fmt.Errorf("s.dao.HasBadge -> %w", err)
	}

	return has, nil
}

func (s *participationStore) GrantBadge(ctx context.Context, userID uint, badge domain.Badge, campaignID *uint) (bool, error) {
	granted, err := s.dao.InsertBadge(ctx, dao.UserBadge{
		UserID:           userID,
		BadgeName:        badge.Name,
		BadgeIcon:        badge.Icon,
		BadgeDescription: badge.Description,
		CampaignID:       campaignID,
	})
	if err != nil {
		return false, fmt.Errorf("s.dao.InsertBadge -> %w", err)
	}

	return granted, nil
}

func membershipDaoToDomain(m dao.Membership) domain.Membership {
	return domain.Membership{
		ID:         m.ID,
		CampaignID: m.CampaignID,
		UserID:     m.UserID,
		Status:     domain.MembershipStatus(m.Status),
		JoinedAt:   m.JoinedAt,
	}
}

func completionDaoToDomain(c dao.Completion) domain.Completion {
	return domain.Completion{
		ID:          c.ID,
		CampaignID:  c.CampaignID,
		UserID:      c.UserID,
		Verified:    c.Verified,
		VerifiedBy:  c.VerifiedBy,
		CompletedAt: c.CompletedAt,
	}
}
