package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-marketing-api/internal/application/campaign"
	"github.com/go-marketing-api/internal/domain"
	jwtinfra "github.com/go-marketing-api/internal/infrastructure/jwt"
	"github.com/go-marketing-api/internal/transport/http/middleware"
)

// --- mock ---

type mockCampaignSvc struct{ mock.Mock }

func (m *mockCampaignSvc) Create(ctx context.Context, userID string, req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	args := m.Called(ctx, userID, req)
	if c, _ := args.Get(0).(*domain.Campaign); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampaignSvc) List(ctx context.Context, userID string) ([]domain.Campaign, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Campaign), args.Error(1)
}
func (m *mockCampaignSvc) Get(ctx context.Context, userID, campaignID string) (*campaign.Details, error) {
	args := m.Called(ctx, userID, campaignID)
	if d, _ := args.Get(0).(*campaign.Details); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampaignSvc) Dispatch(ctx context.Context, userID, campaignID string) (*campaign.DispatchReport, error) {
	args := m.Called(ctx, userID, campaignID)
	if r, _ := args.Get(0).(*campaign.DispatchReport); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCampaignSvc) Pause(ctx context.Context, userID, campaignID string) error {
	return m.Called(ctx, userID, campaignID).Error(0)
}
func (m *mockCampaignSvc) CancelCampaign(ctx context.Context, userID, campaignID string) error {
	return m.Called(ctx, userID, campaignID).Error(0)
}
func (m *mockCampaignSvc) Reset(ctx context.Context, userID, campaignID string) error {
	return m.Called(ctx, userID, campaignID).Error(0)
}

// --- helpers ---

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	claims := &jwtinfra.Claims{UserID: "u1"}
	ctx := context.WithValue(req.Context(), middleware.ClaimsKey, claims)
	return req.WithContext(ctx)
}

func sendBody(campaignID string) []byte {
	b, _ := json.Marshal(domain.SendCampaignRequest{CampaignID: campaignID})
	return b
}

// --- tests ---

func TestSend_ReturnsReport(t *testing.T) {
	svc := new(mockCampaignSvc)
	svc.On("Dispatch", mock.Anything, "u1", "c1").Return(&campaign.DispatchReport{
		CampaignID: "c1", TotalSent: 3, Delivered: 2, Failed: 1,
	}, nil)
	h := NewCampaignHandler(svc)

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/v1/send-campaign", sendBody("c1")))

	require.Equal(t, http.StatusOK, rec.Code)
	var report campaign.DispatchReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.TotalSent)
	assert.Equal(t, 2, report.Delivered)
}

func TestSend_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"already sent", domain.ErrAlreadySent, http.StatusConflict},
		{"wrong state", domain.ErrConflict, http.StatusConflict},
		{"missing creds", domain.ErrMissingProviderCredentials, http.StatusUnprocessableEntity},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"foreign campaign", domain.ErrForbidden, http.StatusForbidden},
		{"storage failure", domain.ErrPersistenceFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockCampaignSvc)
			svc.On("Dispatch", mock.Anything, "u1", "c1").
				Return(nil, fmt.Errorf("dispatch: %w", tc.err))
			h := NewCampaignHandler(svc)

			rec := httptest.NewRecorder()
			h.Send(rec, authedRequest(http.MethodPost, "/v1/send-campaign", sendBody("c1")))
			assert.Equal(t, tc.want, rec.Code)

			var env MessageEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestSend_MissingCampaignID(t *testing.T) {
	svc := new(mockCampaignSvc)
	h := NewCampaignHandler(svc)

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/v1/send-campaign", []byte(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_Unauthenticated(t *testing.T) {
	svc := new(mockCampaignSvc)
	h := NewCampaignHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/send-campaign", bytes.NewReader(sendBody("c1")))
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPause_UsesPathParam(t *testing.T) {
	svc := new(mockCampaignSvc)
	svc.On("Pause", mock.Anything, "u1", "c1").Return(nil)
	h := NewCampaignHandler(svc)

	r := chi.NewRouter()
	r.Post("/v1/campaigns/{id}/pause", h.Pause)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/campaigns/c1/pause", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreate_InvalidType(t *testing.T) {
	svc := new(mockCampaignSvc)
	h := NewCampaignHandler(svc)

	body, _ := json.Marshal(map[string]string{
		"name": "x", "type": "pigeon", "content": "c", "contact_list_id": "l1",
	})
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/v1/campaigns", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
