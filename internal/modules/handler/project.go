package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/middleware"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/serializer"
	"github.com/webprompt/promptengine/internal/modules/service"
	"github.com/webprompt/promptengine/internal/pkg/blueprint"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type CatalogResp struct {
	Frontends []string `json:"frontends"`
	Backends  []string `json:"backends"`
	Formats   []string `json:"formats"`
	Palettes  []string `json:"palettes"`
	AIChoice  string   `json:"ai_choice"`
}

// GetCatalog godoc
//
//	@Summary		Get wizard option catalog
//	@Tags			project
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.CatalogResp}
//	@Router			/catalog [get]
func (h *ProjectHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, serializer.Response{Data: CatalogResp{
		Frontends: blueprint.Frontends,
		Backends:  blueprint.Backends,
		Formats:   blueprint.Formats,
		Palettes:  blueprint.Palettes,
		AIChoice:  blueprint.AIChoice,
	}})
}

type CreateProjectReq struct {
	Name        string   `form:"name" json:"name" binding:"required" example:"Super SaaS Platform"`
	Description string   `form:"description" json:"description" binding:"required" example:"I want to build a CRM for..."`
	Frontend    string   `form:"frontend" json:"frontend" example:"React + Vite"`
	Backend     string   `form:"backend" json:"backend" example:"Supabase"`
	Format      string   `form:"format" json:"format" binding:"omitempty,oneof=Text XML JSON" example:"JSON" enums:"Text,XML,JSON"`
	Palette     []string `form:"palette" json:"palette" example:"Modern Dark,AI_CHOICE"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Compile the wizard selections into a blueprint and create the project. Refused with 402 when the tier's project quota is reached.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/project [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return
	}

	// Wizard defaults, same as the UI preselects.
	if req.Frontend == "" {
		req.Frontend = "React + Vite"
	}
	if req.Backend == "" {
		req.Backend = "Supabase"
	}
	if req.Format == "" {
		req.Format = blueprint.FormatJSON
	}
	if len(req.Palette) == 0 {
		req.Palette = []string{blueprint.AIChoice}
	}

	project, err := h.svc.Create(c.Request.Context(), profile, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Frontend:    req.Frontend,
		Backend:     req.Backend,
		Format:      req.Format,
		Palette:     req.Palette,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExceeded):
			c.JSON(http.StatusPaymentRequired, serializer.PaymentErr("project limit reached for your plan", err))
		case errors.Is(err, blueprint.ErrNameRequired),
			errors.Is(err, blueprint.ErrDescriptionRequired),
			errors.Is(err, blueprint.ErrPaletteSize):
			c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
		default:
			c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		}
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// GetProjects godoc
//
//	@Summary		List projects
//	@Tags			project
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/project [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return
	}

	items, err := h.svc.List(c.Request.Context(), profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: items})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := ownedProject(c, h.svc)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

type UpdateProjectReq struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Description string `form:"description" json:"description" binding:"required"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Rename the project and/or edit its blueprint document.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/project/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	req := UpdateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, ok := ownedProject(c, h.svc)
	if !ok {
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	if err := h.svc.Update(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project; its chat history cascades with it.
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/project/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), profile.ID, projectID); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// ownedProject loads the path project scoped to the authenticated owner,
// writing the error response itself when it cannot.
func ownedProject(c *gin.Context, svc service.ProjectService) (*model.Project, bool) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return nil, false
	}

	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("profile not found")))
		return nil, false
	}

	project, err := svc.Get(c.Request.Context(), profile.ID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return nil, false
	}
	return project, true
}
