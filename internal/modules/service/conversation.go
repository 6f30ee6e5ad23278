package service

import (
	"context"

	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/repo"
	"github.com/webprompt/promptengine/internal/pkg/prompt"
	"go.uber.org/zap"
)

// ConversationService owns the ordered message log of a project. A transcript
// moves EMPTY -> SEEDED on first load and stays append-only forever after;
// no other state is kept outside the log itself.
type ConversationService interface {
	// Transcript returns the full ordered message log, seeding the initial
	// system+assistant pair exactly once when the log is empty and the
	// project has a blueprint.
	Transcript(ctx context.Context, project *model.Project) ([]model.ChatMessage, error)
	AppendUser(ctx context.Context, project *model.Project, content string) (*model.ChatMessage, error)
	AppendAssistant(ctx context.Context, project *model.Project, content string) (*model.ChatMessage, error)
}

type conversationService struct {
	chats repo.ChatRepo
	log   *zap.Logger
}

func NewConversationService(chats repo.ChatRepo, log *zap.Logger) ConversationService {
	return &conversationService{chats: chats, log: log}
}

func (s *conversationService) Transcript(ctx context.Context, project *model.Project) ([]model.ChatMessage, error) {
	n, err := s.chats.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	// A non-zero count means the project is already seeded; never reseed.
	if n > 0 || project.Description == "" {
		return s.chats.ListByProject(ctx, project.ID)
	}

	seed := []model.ChatMessage{
		{
			ProjectID: project.ID,
			Role:      model.RoleSystem,
			Content:   prompt.SeedSystem(project.Description),
		},
		{
			ProjectID: project.ID,
			Role:      model.RoleAssistant,
			Content:   prompt.SeedAssistant,
		},
	}

	seeded, err := s.chats.AppendSeed(ctx, seed)
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("seeded transcript", "project_id", project.ID)
	return seeded, nil
}

func (s *conversationService) AppendUser(ctx context.Context, project *model.Project, content string) (*model.ChatMessage, error) {
	return s.append(ctx, project, model.RoleUser, content)
}

func (s *conversationService) AppendAssistant(ctx context.Context, project *model.Project, content string) (*model.ChatMessage, error) {
	return s.append(ctx, project, model.RoleAssistant, content)
}

func (s *conversationService) append(ctx context.Context, project *model.Project, role, content string) (*model.ChatMessage, error) {
	msg := model.ChatMessage{
		ProjectID: project.ID,
		Role:      role,
		Content:   content,
	}
	if err := s.chats.Append(ctx, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
