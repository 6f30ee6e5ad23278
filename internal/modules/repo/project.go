package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/modules/model"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, ownerID, projectID uuid.UUID) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error) {
	var p model.Project
	return &p, r.db.WithContext(ctx).
		Where(&model.Project{ID: projectID, OwnerID: ownerID}).
		First(&p).Error
}

func (r *projectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	var items []model.Project
	return items, r.db.WithContext(ctx).
		Where(&model.Project{OwnerID: ownerID}).
		Order("created_at DESC").
		Find(&items).Error
}

func (r *projectRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&model.Project{}).
		Where(&model.Project{OwnerID: ownerID}).
		Count(&n).Error
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).
		Where(&model.Project{ID: p.ID, OwnerID: p.OwnerID}).
		Updates(p).Error
}

func (r *projectRepo) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where(&model.Project{OwnerID: ownerID}).
		Delete(&model.Project{ID: projectID}).Error
}
