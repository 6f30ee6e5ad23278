package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webprompt/promptengine/internal/middleware"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/serializer"
	"github.com/webprompt/promptengine/internal/modules/service"
)

type ChatHandler struct {
	projects service.ProjectService
	convo    service.ConversationService
	chat     service.ChatService
}

func NewChatHandler(projects service.ProjectService, convo service.ConversationService, chat service.ChatService) *ChatHandler {
	return &ChatHandler{projects: projects, convo: convo, chat: chat}
}

type TranscriptResp struct {
	Messages []model.ChatMessage `json:"messages"`
	Credits  int                 `json:"credits"`
}

// GetTranscript godoc
//
//	@Summary		Get chat transcript
//	@Description	Return the full ordered message log for a project, seeding the initial system+assistant pair on first load.
//	@Tags			chat
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.TranscriptResp}
//	@Router			/project/{project_id}/chat [get]
func (h *ChatHandler) GetTranscript(c *gin.Context) {
	project, profile, ok := h.ownedProject(c)
	if !ok {
		return
	}

	messages, err := h.convo.Transcript(c.Request.Context(), project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: TranscriptResp{
		Messages: messages,
		Credits:  profile.Credits,
	}})
}

type SubmitTurnReq struct {
	Content string `form:"content" json:"content" binding:"required" example:"Add a dark mode toggle to the settings page"`
}

// SubmitTurn godoc
//
//	@Summary		Submit chat turn
//	@Description	Append a user message, charge the turn, and append the assistant reply. Relay failures still return 200 with a notice persisted in the assistant slot.
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.SubmitTurnReq	true	"SubmitTurn payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.TranscriptResp}
//	@Failure		402	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/project/{project_id}/chat [post]
func (h *ChatHandler) SubmitTurn(c *gin.Context) {
	req := SubmitTurnReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, profile, ok := h.ownedProject(c)
	if !ok {
		return
	}

	out, err := h.chat.SubmitTurn(c.Request.Context(), service.SubmitTurnInput{
		Profile: profile,
		Project: project,
		Content: req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, serializer.ParamErr("message cannot be empty", err))
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, serializer.PaymentErr("not enough credits for this turn", err))
		case errors.Is(err, service.ErrTurnInFlight):
			c.JSON(http.StatusConflict, serializer.Err(http.StatusConflict, "a turn is already in progress for this project", err))
		default:
			c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		}
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: TranscriptResp{
		Messages: out.Messages,
		Credits:  out.Credits,
	}})
}

func (h *ChatHandler) ownedProject(c *gin.Context) (*model.Project, *model.Profile, bool) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return nil, nil, false
	}

	project, ok := ownedProject(c, h.projects)
	if !ok {
		return nil, nil, false
	}
	return project, profile, true
}
