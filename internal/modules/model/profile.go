package model

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the subscription level controlling project quota and credit allotment.
type Tier string

const (
	TierFree      Tier = "FREE"
	TierPlus      Tier = "PLUS"
	TierPro       Tier = "PRO"
	TierDeveloper Tier = "DEVELOPER"
)

type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	APIKey string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`

	Tier    Tier `gorm:"type:text;not null;default:'FREE';check:tier IN ('FREE','PLUS','PRO','DEVELOPER')" json:"tier"`
	Credits int  `gorm:"not null;default:100;check:credits >= 0" json:"credits"`

	PlanExpiresAt *time.Time `json:"plan_expires_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Profile <-> Project
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Profile) TableName() string { return "profiles" }
