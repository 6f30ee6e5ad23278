package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/repo"
	"github.com/webprompt/promptengine/internal/pkg/blueprint"
	"gorm.io/datatypes"
)

type CreateProjectInput struct {
	Name        string
	Description string
	Frontend    string
	Backend     string
	Format      string
	Palette     []string
}

type ProjectService interface {
	// Create compiles the wizard selections into a blueprint and stores the
	// project, refusing with ErrQuotaExceeded at/over the tier project limit.
	Create(ctx context.Context, profile *model.Profile, in CreateProjectInput) (*model.Project, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error)
	Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, ownerID, projectID uuid.UUID) error
}

type projectService struct{ projects repo.ProjectRepo }

func NewProjectService(projects repo.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, profile *model.Profile, in CreateProjectInput) (*model.Project, error) {
	quota := QuotaFor(profile.Tier)
	if quota.MaxProjects >= 0 {
		n, err := s.projects.CountByOwner(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		if n >= int64(quota.MaxProjects) {
			return nil, ErrQuotaExceeded
		}
	}

	doc, err := blueprint.Compile(blueprint.Input{
		Name:        in.Name,
		Description: in.Description,
		Frontend:    in.Frontend,
		Backend:     in.Backend,
		Format:      in.Format,
		Palette:     in.Palette,
	})
	if err != nil {
		return nil, err
	}

	project := model.Project{
		OwnerID:     profile.ID,
		Name:        in.Name,
		Description: doc,
		Configs: datatypes.JSONMap{
			"frontend": in.Frontend,
			"backend":  in.Backend,
			"format":   in.Format,
			"palette":  in.Palette,
		},
	}
	if err := s.projects.Create(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *projectService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

func (s *projectService) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error) {
	return s.projects.Get(ctx, ownerID, projectID)
}

func (s *projectService) Update(ctx context.Context, p *model.Project) error {
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	return s.projects.Delete(ctx, ownerID, projectID)
}
