package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/modules/model"
	"gorm.io/gorm"
)

type ChatRepo interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ChatMessage, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	Append(ctx context.Context, msg *model.ChatMessage) error
	// AppendSeed inserts the initial system+assistant pair in one transaction.
	AppendSeed(ctx context.Context, msgs []model.ChatMessage) ([]model.ChatMessage, error)
}

type chatRepo struct{ db *gorm.DB }

func NewChatRepo(db *gorm.DB) ChatRepo {
	return &chatRepo{db: db}
}

func (r *chatRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ChatMessage, error) {
	var items []model.ChatMessage
	return items, r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
}

func (r *chatRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Where("project_id = ?", projectID).
		Count(&n).Error
}

func (r *chatRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepo) AppendSeed(ctx context.Context, msgs []model.ChatMessage) ([]model.ChatMessage, error) {
	// Spread explicit timestamps so the pair keeps its insert order under the
	// (created_at, id) sort even inside one transaction.
	now := time.Now().UTC()
	for i := range msgs {
		msgs[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			if err := tx.Create(&msgs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return msgs, err
}
