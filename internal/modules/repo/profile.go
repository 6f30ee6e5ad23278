package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/modules/model"
	"gorm.io/gorm"
)

type ProfileRepo interface {
	Create(ctx context.Context, p *model.Profile) error
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByAPIKey(ctx context.Context, key string) (*model.Profile, error)
	// DebitCredits atomically decrements the balance when it covers the
	// amount. It reports false, without mutating, when it does not: the
	// balance can never go negative through this path.
	DebitCredits(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, tier model.Tier, credits int, expiresAt *time.Time) error
}

type profileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var p model.Profile
	return &p, r.db.WithContext(ctx).Where(&model.Profile{ID: id}).First(&p).Error
}

func (r *profileRepo) GetByAPIKey(ctx context.Context, key string) (*model.Profile, error) {
	var p model.Profile
	return &p, r.db.WithContext(ctx).Where(&model.Profile{APIKey: key}).First(&p).Error
}

func (r *profileRepo) DebitCredits(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	// Conditional decrement instead of read-then-write, so concurrent turns
	// cannot lose updates or drive the balance below zero.
	tx := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ? AND credits >= ?", id, amount).
		UpdateColumn("credits", gorm.Expr("credits - ?", amount))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *profileRepo) UpdatePlan(ctx context.Context, id uuid.UUID, tier model.Tier, credits int, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where(&model.Profile{ID: id}).
		Updates(map[string]interface{}{
			"tier":            tier,
			"credits":         credits,
			"plan_expires_at": expiresAt,
		}).Error
}
