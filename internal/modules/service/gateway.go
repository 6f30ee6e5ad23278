package service

import (
	"context"

	"github.com/webprompt/promptengine/internal/infra/llm"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/pkg/blueprint"
	"github.com/webprompt/promptengine/internal/pkg/prompt"
	"go.uber.org/zap"
)

// CompletionGateway turns a project transcript into one assistant reply. It
// makes a single upstream attempt and reports failures in the llm error
// taxonomy; the orchestrator decides what the end user sees.
type CompletionGateway interface {
	Complete(ctx context.Context, project *model.Project, transcript []model.ChatMessage) (string, error)
}

type completionGateway struct {
	client *llm.Client
	log    *zap.Logger
}

func NewCompletionGateway(client *llm.Client, log *zap.Logger) CompletionGateway {
	return &completionGateway{client: client, log: log}
}

func (g *completionGateway) Complete(ctx context.Context, project *model.Project, transcript []model.ChatMessage) (string, error) {
	format := blueprint.ExtractFormat(project.Description)

	// The instruction leads; the stored transcript follows in order with
	// roles preserved.
	messages := make([]llm.Message, 0, len(transcript)+1)
	messages = append(messages, llm.Message{
		Role:    model.RoleSystem,
		Content: prompt.System(project.Name, project.Description, format),
	})
	for _, m := range transcript {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	text, err := g.client.ChatCompletion(ctx, messages)
	if err != nil {
		g.log.Sugar().Warnw("completion failed",
			"project_id", project.ID,
			"model", g.client.Model(),
			"err", err)
		return "", err
	}
	return text, nil
}
