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

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type RegisterResp struct {
	Profile *model.Profile `json:"profile"`
	APIKey  string         `json:"api_key"`
}

// Register godoc
//
//	@Summary		Register profile
//	@Description	Create a FREE-tier profile and return its API key. The key is shown exactly once.
//	@Tags			profile
//	@Produce		json
//	@Success		201	{object}	serializer.Response{data=handler.RegisterResp}
//	@Router			/register [post]
func (h *ProfileHandler) Register(c *gin.Context) {
	p, err := h.svc.Register(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: RegisterResp{Profile: p, APIKey: p.APIKey}})
}

// GetProfile godoc
//
//	@Summary		Get own profile
//	@Tags			profile
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Profile}
//	@Router			/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: profile})
}

type PurchasePlanReq struct {
	Tier model.Tier `form:"tier" json:"tier" binding:"required,oneof=FREE PLUS PRO DEVELOPER" example:"PRO" enums:"FREE,PLUS,PRO,DEVELOPER"`
}

// PurchasePlan godoc
//
//	@Summary		Purchase plan
//	@Description	Switch tier and reset credits to the tier allotment. Payment settlement is outside this service.
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.PurchasePlanReq	true	"PurchasePlan payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Profile}
//	@Router			/profile/plan [post]
func (h *ProfileHandler) PurchasePlan(c *gin.Context) {
	req := PurchasePlanReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return
	}

	updated, err := h.svc.PurchasePlan(c.Request.Context(), profile.ID, req.Tier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: updated})
}
