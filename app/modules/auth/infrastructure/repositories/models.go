package authdb

import (
	"time"

	"github.com/uptrace/bun"
)

// AllowlistEntry is one admin_allowlist row: an exact address or *@domain.
type AllowlistEntry struct {
	bun.BaseModel `bun:"table:admin_allowlist,alias:aa"`

	Email     string    `bun:"email,pk" json:"email"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
