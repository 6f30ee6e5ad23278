package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/webprompt/promptengine/internal/modules/model"
)

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Register(ctx context.Context) (*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) PurchasePlan(ctx context.Context, id uuid.UUID, tier model.Tier) (*model.Profile, error) {
	args := m.Called(ctx, id, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func TestProfileHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*MockProfileService)
		expectedStatus int
	}{
		{
			name: "successful registration returns the key once",
			setup: func(svc *MockProfileService) {
				svc.On("Register", mock.Anything).Return(&model.Profile{
					ID:      uuid.New(),
					APIKey:  "sk-pe-test",
					Tier:    model.TierFree,
					Credits: 100,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "service layer error",
			setup: func(svc *MockProfileService) {
				svc.On("Register", mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProfileService{}
			tt.setup(mockService)

			handler := NewProfileHandler(mockService)
			router := setupRouter()
			router.POST("/register", handler.Register)

			req := httptest.NewRequest("POST", "/register", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				// The key appears in the registration response even though the
				// profile model never serializes it.
				assert.Contains(t, w.Body.String(), "sk-pe-test")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestProfileHandler_PurchasePlan(t *testing.T) {
	profile := &model.Profile{ID: uuid.New(), Tier: model.TierFree, Credits: 100}

	tests := []struct {
		name           string
		body           PurchasePlanReq
		setup          func(*MockProfileService)
		expectedStatus int
	}{
		{
			name: "successful upgrade",
			body: PurchasePlanReq{Tier: model.TierPro},
			setup: func(svc *MockProfileService) {
				svc.On("PurchasePlan", mock.Anything, profile.ID, model.TierPro).Return(&model.Profile{
					ID:      profile.ID,
					Tier:    model.TierPro,
					Credits: 2000,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid tier fails binding",
			body:           PurchasePlanReq{Tier: model.Tier("ENTERPRISE")},
			setup:          func(svc *MockProfileService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProfileService{}
			tt.setup(mockService)

			handler := NewProfileHandler(mockService)
			router := setupRouter()
			router.POST("/profile/plan", withProfile(profile, handler.PurchasePlan))

			body, _ := sonic.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/profile/plan", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProfileHandler_GetProfile(t *testing.T) {
	profile := &model.Profile{ID: uuid.New(), Tier: model.TierPlus, Credits: 480}

	handler := NewProfileHandler(&MockProfileService{})
	router := setupRouter()
	router.GET("/profile", withProfile(profile, handler.GetProfile))

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"credits":480`)
}
