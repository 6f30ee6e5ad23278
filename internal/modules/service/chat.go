package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/webprompt/promptengine/internal/infra/llm"
	mq "github.com/webprompt/promptengine/internal/infra/queue"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/pkg/prompt"
	"go.uber.org/zap"
)

const turnLockTTL = 2 * time.Minute

type SubmitTurnInput struct {
	Profile *model.Profile
	Project *model.Project
	Content string
}

type SubmitTurnOutput struct {
	Messages []model.ChatMessage
	Credits  int
}

// TurnEvent is published after every completed turn when a broker is
// configured.
type TurnEvent struct {
	ProjectID   uuid.UUID `json:"project_id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Credits     int       `json:"credits"`
	GatewayOK   bool      `json:"gateway_ok"`
	CompletedAt time.Time `json:"completed_at"`
}

// ChatService orchestrates one chat turn: credit check, user append, debit,
// completion, assistant append. Failures after the user message is persisted
// are converted into an assistant-role notice so the transcript always stays
// coherent for display.
type ChatService interface {
	SubmitTurn(ctx context.Context, in SubmitTurnInput) (*SubmitTurnOutput, error)
}

type chatService struct {
	convo   ConversationService
	credits CreditService
	gateway CompletionGateway
	rdb     *redis.Client
	mq      *amqp.Connection
	mqQueue string
	log     *zap.Logger
}

func NewChatService(
	convo ConversationService,
	credits CreditService,
	gateway CompletionGateway,
	rdb *redis.Client,
	mqConn *amqp.Connection,
	mqQueue string,
	log *zap.Logger,
) ChatService {
	return &chatService{
		convo:   convo,
		credits: credits,
		gateway: gateway,
		rdb:     rdb,
		mq:      mqConn,
		mqQueue: mqQueue,
		log:     log,
	}
}

func (s *chatService) SubmitTurn(ctx context.Context, in SubmitTurnInput) (*SubmitTurnOutput, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	// Serialize turns per project so two tabs cannot double-debit or
	// interleave the transcript.
	if s.rdb != nil {
		unlock, err := s.lockProject(ctx, in.Project.ID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	// Refuse before any persistence when the balance cannot cover the turn.
	if !s.credits.CanAfford(in.Profile, CostPerTurn) {
		return nil, ErrInsufficientCredits
	}

	transcript, err := s.convo.Transcript(ctx, in.Project)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.convo.AppendUser(ctx, in.Project, content)
	if err != nil {
		return nil, err
	}
	transcript = append(transcript, *userMsg)

	// The user message is already persisted at this point. A debit failure is
	// logged and the turn continues with the balance unchanged; see DESIGN.md
	// for the rollback discussion.
	remaining := in.Profile.Credits
	if err := s.credits.Debit(ctx, in.Profile.ID, CostPerTurn); err != nil {
		s.log.Sugar().Errorw("credit debit failed after user message persisted",
			"project_id", in.Project.ID,
			"profile_id", in.Profile.ID,
			"err", err)
	} else {
		remaining -= CostPerTurn
	}

	reply, gatewayErr := s.gateway.Complete(ctx, in.Project, transcript)
	if gatewayErr != nil {
		reply = noticeFor(gatewayErr)
	}

	assistantMsg, err := s.convo.AppendAssistant(ctx, in.Project, reply)
	if err != nil {
		return nil, err
	}
	transcript = append(transcript, *assistantMsg)

	s.publishTurn(ctx, TurnEvent{
		ProjectID:   in.Project.ID,
		ProfileID:   in.Profile.ID,
		Credits:     remaining,
		GatewayOK:   gatewayErr == nil,
		CompletedAt: time.Now().UTC(),
	})

	return &SubmitTurnOutput{Messages: transcript, Credits: remaining}, nil
}

// noticeFor maps a gateway failure to the assistant-role notice persisted in
// its place. Detail text is logged, never shown: it may describe relay
// configuration.
func noticeFor(err error) string {
	if errors.Is(err, llm.ErrMalformedResponse) {
		return prompt.FallbackNotice
	}
	return prompt.ErrorNotice
}

func (s *chatService) lockProject(ctx context.Context, projectID uuid.UUID) (func(), error) {
	key := "turn_lock:" + projectID.String()
	ok, err := s.rdb.SetNX(ctx, key, 1, turnLockTTL).Result()
	if err != nil {
		// The lock is best-effort: a cache outage must not take chat down.
		s.log.Sugar().Warnw("turn lock unavailable", "project_id", projectID, "err", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrTurnInFlight
	}
	return func() {
		if err := s.rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			s.log.Sugar().Warnw("turn unlock failed", "project_id", projectID, "err", err)
		}
	}, nil
}

func (s *chatService) publishTurn(ctx context.Context, ev TurnEvent) {
	if s.mq == nil {
		return
	}
	p, err := mq.NewPublisher(s.mq, s.mqQueue, s.log)
	if err != nil {
		s.log.Sugar().Warnw("create turn publisher", "err", err)
		return
	}
	defer p.Close()
	if err := p.PublishJSON(ctx, ev); err != nil {
		s.log.Sugar().Warnw("publish turn event", "err", err)
	}
}
