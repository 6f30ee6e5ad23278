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
	"github.com/webprompt/promptengine/internal/pkg/prompt"
	"go.uber.org/zap"
)

// MockChatRepo is a mock implementation of ChatRepo
type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ChatMessage, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepo) AppendSeed(ctx context.Context, msgs []model.ChatMessage) ([]model.ChatMessage, error) {
	args := m.Called(ctx, msgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func TestConversationService_Transcript_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	project := &model.Project{
		ID:          uuid.New(),
		Description: "APP BLUEPRINT: DEMO",
	}

	repo := &MockChatRepo{}
	repo.On("CountByProject", ctx, project.ID).Return(int64(0), nil)
	repo.On("AppendSeed", ctx, mock.MatchedBy(func(msgs []model.ChatMessage) bool {
		return len(msgs) == 2 &&
			msgs[0].Role == model.RoleSystem &&
			msgs[1].Role == model.RoleAssistant &&
			msgs[1].Content == prompt.SeedAssistant
	})).Return([]model.ChatMessage{
		{ProjectID: project.ID, Role: model.RoleSystem, Content: prompt.SeedSystem(project.Description)},
		{ProjectID: project.ID, Role: model.RoleAssistant, Content: prompt.SeedAssistant},
	}, nil)

	svc := NewConversationService(repo, zap.NewNop())
	msgs, err := svc.Transcript(ctx, project)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "PROJECT BLUEPRINT CONTEXT:")
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	repo.AssertExpectations(t)
}

func TestConversationService_Transcript_NoReseed(t *testing.T) {
	ctx := context.Background()
	project := &model.Project{
		ID:          uuid.New(),
		Description: "APP BLUEPRINT: DEMO",
	}
	existing := []model.ChatMessage{
		{ProjectID: project.ID, Role: model.RoleSystem, Content: "seed"},
		{ProjectID: project.ID, Role: model.RoleAssistant, Content: "question"},
		{ProjectID: project.ID, Role: model.RoleUser, Content: "answer"},
	}

	repo := &MockChatRepo{}
	repo.On("CountByProject", ctx, project.ID).Return(int64(3), nil)
	repo.On("ListByProject", ctx, project.ID).Return(existing, nil)

	svc := NewConversationService(repo, zap.NewNop())
	msgs, err := svc.Transcript(ctx, project)

	require.NoError(t, err)
	assert.Equal(t, existing, msgs)
	// AppendSeed must never fire on a non-empty log.
	repo.AssertNotCalled(t, "AppendSeed", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestConversationService_Transcript_NoBlueprintNoSeed(t *testing.T) {
	ctx := context.Background()
	project := &model.Project{ID: uuid.New(), Description: ""}

	repo := &MockChatRepo{}
	repo.On("CountByProject", ctx, project.ID).Return(int64(0), nil)
	repo.On("ListByProject", ctx, project.ID).Return([]model.ChatMessage{}, nil)

	svc := NewConversationService(repo, zap.NewNop())
	msgs, err := svc.Transcript(ctx, project)

	require.NoError(t, err)
	assert.Empty(t, msgs)
	repo.AssertNotCalled(t, "AppendSeed", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestConversationService_Append(t *testing.T) {
	ctx := context.Background()
	project := &model.Project{ID: uuid.New()}

	tests := []struct {
		name    string
		call    func(ConversationService) (*model.ChatMessage, error)
		role    string
		setup   func(*MockChatRepo)
		wantErr bool
	}{
		{
			name: "append user message",
			call: func(svc ConversationService) (*model.ChatMessage, error) {
				return svc.AppendUser(ctx, project, "hello")
			},
			role: model.RoleUser,
			setup: func(repo *MockChatRepo) {
				repo.On("Append", ctx, mock.MatchedBy(func(m *model.ChatMessage) bool {
					return m.Role == model.RoleUser && m.Content == "hello"
				})).Return(nil)
			},
		},
		{
			name: "append assistant message",
			call: func(svc ConversationService) (*model.ChatMessage, error) {
				return svc.AppendAssistant(ctx, project, "reply")
			},
			role: model.RoleAssistant,
			setup: func(repo *MockChatRepo) {
				repo.On("Append", ctx, mock.MatchedBy(func(m *model.ChatMessage) bool {
					return m.Role == model.RoleAssistant && m.Content == "reply"
				})).Return(nil)
			},
		},
		{
			name: "append failure",
			call: func(svc ConversationService) (*model.ChatMessage, error) {
				return svc.AppendUser(ctx, project, "hello")
			},
			setup: func(repo *MockChatRepo) {
				repo.On("Append", ctx, mock.AnythingOfType("*model.ChatMessage")).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockChatRepo{}
			tt.setup(repo)

			svc := NewConversationService(repo, zap.NewNop())
			msg, err := tt.call(svc)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, msg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.role, msg.Role)
				assert.Equal(t, project.ID, msg.ProjectID)
			}

			repo.AssertExpectations(t)
		})
	}
}
