package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	NotificationTypeBorrow = "borrow"
	NotificationTypeReturn = "return"
)

// Notification records that a member borrowed or returned a title.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `bun:",nullzero" json:"type"`
	MemberID  int       `bun:",nullzero" json:"member_id"`
	Title     string    `bun:",nullzero" json:"title"`
}
