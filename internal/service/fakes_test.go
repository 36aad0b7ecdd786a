package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository"
)

var errInjected = errors.New("injected failure")

type pairKey struct {
	campaignID uint
	userID     uint
}

type participationState struct {
	campaigns   map[uint]domain.Campaign
	memberships map[pairKey]domain.Membership
	completions map[pairKey]domain.Completion
	activities  []domain.Activity
	points      map[uint]int
	badges      map[uint]map[string]domain.Badge
}

func newParticipationState() participationState {
	return participationState{
		campaigns:   map[uint]domain.Campaign{},
		memberships: map[pairKey]domain.Membership{},
		completions: map[pairKey]domain.Completion{},
		points:      map[uint]int{},
		badges:      map[uint]map[string]domain.Badge{},
	}
}

func (s participationState) clone() participationState {
	c := newParticipationState()
	for k, v := range s.campaigns {
		c.campaigns[k] = v
	}
	for k, v := range s.memberships {
		c.memberships[k] = v
	}
	for k, v := range s.completions {
		c.completions[k] = v
	}
	c.activities = append([]domain.Activity(nil), s.activities...)
	for k, v := range s.points {
		c.points[k] = v
	}
	for user, held := range s.badges {
		c.badges[user] = map[string]domain.Badge{}
		for name, badge := range held {
			c.badges[user][name] = badge
		}
	}
	return c
}

// fakeParticipationRepo serializes transactions and restores the snapshot
// taken at the start of InTx when fn fails.
type fakeParticipationRepo struct {
	mu     sync.Mutex
	state  participationState
	failOn string
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{state: newParticipationState()}
}

func (r *fakeParticipationRepo) addCampaign(c domain.Campaign) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.campaigns[c.ID] = c
}

func (r *fakeParticipationRepo) addUser(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.points[id] = 0
}

func (r *fakeParticipationRepo) snapshot() participationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

func (r *fakeParticipationRepo) InTx(_ context.Context, fn func(store repository.ParticipationStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := r.state.clone()
	if err := fn(&fakeParticipationStore{state: &r.state, failOn: r.failOn}); err != nil {
		r.state = before
		return err
	}

	return nil
}

type fakeParticipationStore struct {
	state  *participationState
	failOn string
}

func (s *fakeParticipationStore) fail(method string) error {
	if s.failOn == method {
		return errInjected
	}
	return nil
}

func (s *fakeParticipationStore) FindCampaign(_ context.Context, id uint) (domain.Campaign, error) {
	if err := s.fail("FindCampaign"); err != nil {
		return domain.Campaign{}, err
	}
	c, ok := s.state.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrCampaignNotFound
	}
	return c, nil
}

func (s *fakeParticipationStore) ReserveSeat(_ context.Context, campaignID uint) error {
	if err := s.fail("ReserveSeat"); err != nil {
		return err
	}
	c := s.state.campaigns[campaignID]
	if c.VolunteersJoined >= c.VolunteersNeeded {
		return repository.ErrCampaignFull
	}
	c.VolunteersJoined++
	s.state.campaigns[campaignID] = c
	return nil
}

func (s *fakeParticipationStore) FindMembership(_ context.Context, campaignID, userID uint) (domain.Membership, error) {
	m, ok := s.state.memberships[pairKey{campaignID, userID}]
	if !ok {
		return domain.Membership{}, repository.ErrMembershipNotFound
	}
	return m, nil
}

func (s *fakeParticipationStore) CreateMembership(_ context.Context, campaignID, userID uint) (domain.Membership, error) {
	if err := s.fail("CreateMembership"); err != nil {
		return domain.Membership{}, err
	}
	key := pairKey{campaignID, userID}
	if _, ok := s.state.memberships[key]; ok {
		return domain.Membership{}, repository.ErrMembershipExists
	}
	m := domain.Membership{
		ID:         uint(len(s.state.memberships) + 1),
		CampaignID: campaignID,
		UserID:     userID,
		Status:     domain.MembershipJoined,
		JoinedAt:   time.Now(),
	}
	s.state.memberships[key] = m
	return m, nil
}

func (s *fakeParticipationStore) UpdateMembershipStatus(_ context.Context, campaignID, userID uint, status domain.MembershipStatus) error {
	key := pairKey{campaignID, userID}
	m, ok := s.state.memberships[key]
	if !ok {
		return repository.ErrMembershipNotFound
	}
	m.Status = status
	s.state.memberships[key] = m
	return nil
}

func (s *fakeParticipationStore) FindCompletion(_ context.Context, campaignID, userID uint) (domain.Completion, error) {
	c, ok := s.state.completions[pairKey{campaignID, userID}]
	if !ok {
		return domain.Completion{}, repository.ErrCompletionNotFound
	}
	return c, nil
}

func (s *fakeParticipationStore) CreateCompletion(_ context.Context, campaignID, userID uint) (domain.Completion, error) {
	key := pairKey{campaignID, userID}
	if _, ok := s.state.completions[key]; ok {
		return domain.Completion{}, repository.ErrCompletionExists
	}
	c := domain.Completion{
		ID:          uint(len(s.state.completions) + 1),
		CampaignID:  campaignID,
		UserID:      userID,
		CompletedAt: time.Now(),
	}
	s.state.completions[key] = c
	return c, nil
}

func (s *fakeParticipationStore) MarkVerified(_ context.Context, campaignID, userID, organizationID uint) error {
	key := pairKey{campaignID, userID}
	c, ok := s.state.completions[key]
	if !ok || c.Verified {
		return repository.ErrCompletionVerified
	}
	c.Verified = true
	c.VerifiedBy = &organizationID
	s.state.completions[key] = c
	return nil
}

func (s *fakeParticipationStore) RecordActivity(_ context.Context, activity domain.Activity) (domain.Activity, error) {
	if err := s.fail("RecordActivity"); err != nil {
		return domain.Activity{}, err
	}
	if _, ok := s.state.points[activity.UserID]; !ok {
		return domain.Activity{}, repository.ErrUserNotFound
	}
	activity.ID = uint(len(s.state.activities) + 1)
	activity.CreatedAt = time.Now()
	s.state.activities = append(s.state.activities, activity)
	s.state.points[activity.UserID] += activity.PointsEarned
	return activity, nil
}

func (s *fakeParticipationStore) UserProgress(_ context.Context, userID uint) (domain.Progress, error) {
	var completed int64
	for key := range s.state.completions {
		if key.userID == userID {
			completed++
		}
	}
	return domain.Progress{CampaignsCompleted: completed, EcoPoints: s.state.points[userID]}, nil
}

func (s *fakeParticipationStore) HasBadge(_ context.Context, userID uint, badgeName string) (bool, error) {
	_, ok := s.state.badges[userID][badgeName]
	return ok, nil
}

func (s *fakeParticipationStore) GrantBadge(_ context.Context, userID uint, badge domain.Badge, _ *uint) (bool, error) {
	if err := s.fail("GrantBadge"); err != nil {
		return false, err
	}
	if s.state.badges[userID] == nil {
		s.state.badges[userID] = map[string]domain.Badge{}
	}
	if _, ok := s.state.badges[userID][badge.Name]; ok {
		return false, nil
	}
	s.state.badges[userID][badge.Name] = badge
	return true, nil
}

func (s participationState) badgeNames(userID uint) []string {
	names := []string{}
	for _, rule := range badgeCatalogue {
		if _, ok := s.badges[userID][rule.Badge.Name]; ok {
			names = append(names, rule.Badge.Name)
		}
	}
	return names
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]domain.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) Find(_ context.Context, id string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var purged int64
	for id, session := range f.sessions {
		if session.Expired(now) {
			delete(f.sessions, id)
			purged++
		}
	}
	return purged, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	user.ID = uint(len(f.users) + 1)
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeOrganizationRepo struct {
	mu   sync.Mutex
	orgs map[string]domain.Organization
}

func newFakeOrganizationRepo() *fakeOrganizationRepo {
	return &fakeOrganizationRepo{orgs: map[string]domain.Organization{}}
}

func (f *fakeOrganizationRepo) Create(_ context.Context, org domain.Organization) (domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orgs[org.Email]; ok {
		return domain.Organization{}, repository.ErrOrganizationEmailExists
	}
	org.ID = uint(len(f.orgs) + 1)
	f.orgs[org.Email] = org
	return org, nil
}

func (f *fakeOrganizationRepo) FindByEmail(_ context.Context, email string) (domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[email]
	if !ok {
		return domain.Organization{}, repository.ErrOrganizationNotFound
	}
	return org, nil
}
