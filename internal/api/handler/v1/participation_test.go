package v1

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/service"
)

type fakeParticipationService struct {
	err   error
	calls []string
}

func (f *fakeParticipationService) result(campaignID, userID uint, status domain.MembershipStatus, points int) (domain.ParticipationResult, error) {
	if f.err != nil {
		return domain.ParticipationResult{}, f.err
	}
	return domain.ParticipationResult{
		CampaignID:    campaignID,
		UserID:        userID,
		Status:        status,
		PointsAwarded: points,
		BadgesAwarded: []domain.Badge{},
	}, nil
}

func (f *fakeParticipationService) Join(_ context.Context, campaignID, userID uint) (domain.ParticipationResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("join %d %d", campaignID, userID))
	return f.result(campaignID, userID, domain.MembershipJoined, service.JoinPoints)
}

func (f *fakeParticipationService) ReportCompletion(_ context.Context, campaignID, userID uint) (domain.ParticipationResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("complete %d %d", campaignID, userID))
	return f.result(campaignID, userID, domain.MembershipCompleted, service.CompletionPoints)
}

func (f *fakeParticipationService) Verify(_ context.Context, campaignID, userID, organizationID uint) (domain.ParticipationResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("verify %d %d by %d", campaignID, userID, organizationID))
	return f.result(campaignID, userID, domain.MembershipVerified, service.VerificationPoints)
}

func newParticipationRouter(svc *fakeParticipationService) *gin.Engine {
	router, auth := newRouter()
	h := NewParticipationHandler(svc)

	router.POST("/campaigns/:campaignID/join", auth.Require(domain.PrincipalUser), h.HandleJoin)
	router.POST("/campaigns/:campaignID/complete", auth.Require(domain.PrincipalUser), h.HandleComplete)
	router.POST("/campaigns/:campaignID/volunteers/:userID/verify", auth.Require(domain.PrincipalOrganization), h.HandleVerify)
	return router
}

func TestParticipationHandler_HappyPath(t *testing.T) {
	svc := &fakeParticipationService{}
	router := newParticipationRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/campaigns/4/join", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	joined := decode[response.ParticipationResponse](t, rec)
	assert.Equal(t, service.JoinPoints, joined.PointsAwarded)
	assert.Equal(t, "Successfully joined the campaign! You earned 10 eco points.", joined.Message)

	rec = doRequest(t, router, http.MethodPost, "/campaigns/4/complete", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/campaigns/4/volunteers/7/verify", orgToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MembershipVerified, decode[response.ParticipationResponse](t, rec).Status)

	assert.Equal(t, []string{"join 4 7", "complete 4 7", "verify 4 7 by 3"}, svc.calls)
}

func TestParticipationHandler_RequiresMatchingAccount(t *testing.T) {
	svc := &fakeParticipationService{}
	router := newParticipationRouter(svc)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodPost, "/campaigns/4/join", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodPost, "/campaigns/4/join", orgToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodPost, "/campaigns/4/volunteers/7/verify", userToken, nil).Code)
	assert.Empty(t, svc.calls)
}

func TestParticipationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{service.ErrCampaignNotFound, http.StatusNotFound},
		{service.ErrCampaignFull, http.StatusConflict},
		{service.ErrAlreadyJoined, http.StatusConflict},
		{service.ErrNotJoined, http.StatusConflict},
		{service.ErrAlreadyCompleted, http.StatusConflict},
		{service.ErrNotCompleted, http.StatusConflict},
		{service.ErrAlreadyVerified, http.StatusConflict},
		{service.ErrAccessDenied, http.StatusForbidden},
		{fmt.Errorf("s.repo.InTx -> %w", errStorage), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := newParticipationRouter(&fakeParticipationService{err: fmt.Errorf("s.repo.InTx -> %w", tt.err)})

			rec := doRequest(t, router, http.MethodPost, "/campaigns/4/volunteers/7/verify", orgToken, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	rec := doRequest(t, newParticipationRouter(&fakeParticipationService{}), http.MethodPost, "/campaigns/0/join", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
