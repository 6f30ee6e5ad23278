package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/repo"
)

// CostPerTurn is the fixed credit price of one chat turn. Policy constant,
// not user-configurable.
const CostPerTurn = 20

// Quota is what a tier entitles a user to. MaxProjects < 0 means unlimited.
type Quota struct {
	MaxProjects int
	MaxCredits  int
}

func QuotaFor(tier model.Tier) Quota {
	switch tier {
	case model.TierPlus:
		return Quota{MaxProjects: 5, MaxCredits: 500}
	case model.TierPro:
		return Quota{MaxProjects: 20, MaxCredits: 2000}
	case model.TierDeveloper:
		return Quota{MaxProjects: -1, MaxCredits: 6000}
	default:
		return Quota{MaxProjects: 1, MaxCredits: 100}
	}
}

type CreditService interface {
	CanAfford(p *model.Profile, cost int) bool
	// Debit fails with ErrInsufficientCredits and leaves the balance untouched
	// when it does not cover cost.
	Debit(ctx context.Context, profileID uuid.UUID, cost int) error
}

type creditService struct{ profiles repo.ProfileRepo }

func NewCreditService(profiles repo.ProfileRepo) CreditService {
	return &creditService{profiles: profiles}
}

func (s *creditService) CanAfford(p *model.Profile, cost int) bool {
	return p != nil && p.Credits >= cost
}

func (s *creditService) Debit(ctx context.Context, profileID uuid.UUID, cost int) error {
	debited, err := s.profiles.DebitCredits(ctx, profileID, cost)
	if err != nil {
		return err
	}
	if !debited {
		return ErrInsufficientCredits
	}
	return nil
}
