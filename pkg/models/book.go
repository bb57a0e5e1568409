package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book is the inventory line for a single title. Title is the natural key and
// Copies is the number of units currently on the shelf.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	Copies    int       `bun:",notnull" json:"copies"`
}

// IsAvailable reports whether at least one copy can be lent out.
func (b *Book) IsAvailable() bool {
	return b.Copies > 0
}
