package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/webprompt/promptengine/internal/modules/model"
)

// MockProfileRepo is a mock implementation of ProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepo) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByAPIKey(ctx context.Context, key string) (*model.Profile, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepo) DebitCredits(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) UpdatePlan(ctx context.Context, id uuid.UUID, tier model.Tier, credits int, expiresAt *time.Time) error {
	args := m.Called(ctx, id, tier, credits, expiresAt)
	return args.Error(0)
}

func TestQuotaFor(t *testing.T) {
	tests := []struct {
		name string
		tier model.Tier
		want Quota
	}{
		{
			name: "free tier",
			tier: model.TierFree,
			want: Quota{MaxProjects: 1, MaxCredits: 100},
		},
		{
			name: "plus tier",
			tier: model.TierPlus,
			want: Quota{MaxProjects: 5, MaxCredits: 500},
		},
		{
			name: "pro tier",
			tier: model.TierPro,
			want: Quota{MaxProjects: 20, MaxCredits: 2000},
		},
		{
			name: "developer tier has unlimited projects",
			tier: model.TierDeveloper,
			want: Quota{MaxProjects: -1, MaxCredits: 6000},
		},
		{
			name: "unknown tier falls back to free",
			tier: model.Tier("ENTERPRISE"),
			want: Quota{MaxProjects: 1, MaxCredits: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuotaFor(tt.tier))
		})
	}
}

func TestCreditService_CanAfford(t *testing.T) {
	svc := NewCreditService(&MockProfileRepo{})

	tests := []struct {
		name    string
		profile *model.Profile
		cost    int
		want    bool
	}{
		{
			name:    "balance above cost",
			profile: &model.Profile{Credits: 100},
			cost:    CostPerTurn,
			want:    true,
		},
		{
			name:    "balance exactly at cost",
			profile: &model.Profile{Credits: CostPerTurn},
			cost:    CostPerTurn,
			want:    true,
		},
		{
			name:    "balance one below cost",
			profile: &model.Profile{Credits: CostPerTurn - 1},
			cost:    CostPerTurn,
			want:    false,
		},
		{
			name:    "zero balance",
			profile: &model.Profile{Credits: 0},
			cost:    CostPerTurn,
			want:    false,
		},
		{
			name:    "nil profile",
			profile: nil,
			cost:    CostPerTurn,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CanAfford(tt.profile, tt.cost))
		})
	}
}

func TestCreditService_Debit(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()

	tests := []struct {
		name    string
		setup   func(*MockProfileRepo)
		wantErr error
	}{
		{
			name: "successful debit",
			setup: func(repo *MockProfileRepo) {
				repo.On("DebitCredits", ctx, profileID, CostPerTurn).Return(true, nil)
			},
		},
		{
			name: "balance does not cover the turn",
			setup: func(repo *MockProfileRepo) {
				repo.On("DebitCredits", ctx, profileID, CostPerTurn).Return(false, nil)
			},
			wantErr: ErrInsufficientCredits,
		},
		{
			name: "repository failure",
			setup: func(repo *MockProfileRepo) {
				repo.On("DebitCredits", ctx, profileID, CostPerTurn).Return(false, errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockProfileRepo{}
			tt.setup(repo)

			svc := NewCreditService(repo)
			err := svc.Debit(ctx, profileID, CostPerTurn)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}
