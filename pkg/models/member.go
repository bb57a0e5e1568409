package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	ID            int        `bun:",pk,nullzero" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Name          string     `bun:",nullzero" json:"name"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

func (m *Member) IsActive() bool {
	return m.DeactivatedAt == nil
}
