package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/pkg/blueprint"
)

// MockProjectRepo is a mock implementation of ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	args := m.Called(ctx, ownerID, projectID)
	return args.Error(0)
}

func validCreateInput() CreateProjectInput {
	return CreateProjectInput{
		Name:        "Shop Mate",
		Description: "An e-commerce storefront.",
		Frontend:    "React + Vite",
		Backend:     "Supabase",
		Format:      blueprint.FormatJSON,
		Palette:     []string{blueprint.AIChoice},
	}
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	tests := []struct {
		name    string
		profile *model.Profile
		input   CreateProjectInput
		setup   func(*MockProjectRepo)
		wantErr error
	}{
		{
			name:    "free tier under quota",
			profile: &model.Profile{ID: ownerID, Tier: model.TierFree},
			input:   validCreateInput(),
			setup: func(repo *MockProjectRepo) {
				repo.On("CountByOwner", ctx, ownerID).Return(int64(0), nil)
				repo.On("Create", ctx, mock.AnythingOfType("*model.Project")).Return(nil)
			},
		},
		{
			name:    "free tier at quota is refused",
			profile: &model.Profile{ID: ownerID, Tier: model.TierFree},
			input:   validCreateInput(),
			setup: func(repo *MockProjectRepo) {
				repo.On("CountByOwner", ctx, ownerID).Return(int64(1), nil)
			},
			wantErr: ErrQuotaExceeded,
		},
		{
			name:    "developer tier skips the count entirely",
			profile: &model.Profile{ID: ownerID, Tier: model.TierDeveloper},
			input:   validCreateInput(),
			setup: func(repo *MockProjectRepo) {
				repo.On("Create", ctx, mock.AnythingOfType("*model.Project")).Return(nil)
			},
		},
		{
			name:    "invalid wizard input never reaches the repo",
			profile: &model.Profile{ID: ownerID, Tier: model.TierPro},
			input: CreateProjectInput{
				Name:        "",
				Description: "desc",
				Palette:     []string{"Modern Dark"},
			},
			setup: func(repo *MockProjectRepo) {
				repo.On("CountByOwner", ctx, ownerID).Return(int64(0), nil)
			},
			wantErr: blueprint.ErrNameRequired,
		},
		{
			name:    "count failure",
			profile: &model.Profile{ID: ownerID, Tier: model.TierFree},
			input:   validCreateInput(),
			setup: func(repo *MockProjectRepo) {
				repo.On("CountByOwner", ctx, ownerID).Return(int64(0), errors.New("database error"))
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockProjectRepo{}
			tt.setup(repo)

			svc := NewProjectService(repo)
			project, err := svc.Create(ctx, tt.profile, tt.input)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, project)
			} else {
				require.NoError(t, err)
				require.NotNil(t, project)
				assert.Equal(t, tt.profile.ID, project.OwnerID)
				assert.Contains(t, project.Description, "APP BLUEPRINT:")
				assert.Equal(t, tt.input.Frontend, project.Configs["frontend"])
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	projectID := uuid.New()

	repo := &MockProjectRepo{}
	repo.On("Delete", ctx, ownerID, projectID).Return(nil)

	svc := NewProjectService(repo)
	assert.NoError(t, svc.Delete(ctx, ownerID, projectID))
	repo.AssertExpectations(t)
}
