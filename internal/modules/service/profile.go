package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/repo"
	"github.com/webprompt/promptengine/internal/pkg/utils"
)

const apiKeyPrefix = "sk-pe-"

type ProfileService interface {
	// Register creates a FREE profile with a fresh API key. Identity itself
	// lives upstream; this is the bootstrap hook for it.
	Register(ctx context.Context) (*model.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// PurchasePlan switches the tier and resets credits to the tier
	// allotment. Paid tiers get a 30 day validity window.
	PurchasePlan(ctx context.Context, id uuid.UUID, tier model.Tier) (*model.Profile, error)
}

type profileService struct{ profiles repo.ProfileRepo }

func NewProfileService(profiles repo.ProfileRepo) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Register(ctx context.Context) (*model.Profile, error) {
	key, err := utils.GenerateKey(apiKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	quota := QuotaFor(model.TierFree)
	p := model.Profile{
		APIKey:  key,
		Tier:    model.TierFree,
		Credits: quota.MaxCredits,
	}
	if err := s.profiles.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *profileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return s.profiles.Get(ctx, id)
}

func (s *profileService) PurchasePlan(ctx context.Context, id uuid.UUID, tier model.Tier) (*model.Profile, error) {
	switch tier {
	case model.TierFree, model.TierPlus, model.TierPro, model.TierDeveloper:
	default:
		return nil, fmt.Errorf("unknown tier %q", tier)
	}

	var expiresAt *time.Time
	if tier != model.TierFree {
		t := time.Now().UTC().AddDate(0, 0, 30)
		expiresAt = &t
	}

	quota := QuotaFor(tier)
	if err := s.profiles.UpdatePlan(ctx, id, tier, quota.MaxCredits, expiresAt); err != nil {
		return nil, err
	}
	return s.profiles.Get(ctx, id)
}
