// Package models contains the records the console keeps locally,
// configured to work using GORM as the ORM.
package models

import (
	"time"
)

// OperatorSlot identifies the single operator snapshot row.
const OperatorSlot = "operator"

// IdentitySnapshot is the last known operator identity and backend token.
// It lets the console restore a session when the backend cannot verify one.
type IdentitySnapshot struct {
	Slot      string `gorm:"primaryKey;size:32"`
	Email     string `gorm:"size:320"`
	Role      string `gorm:"size:64"`
	Message   string `gorm:"size:512"`
	Token     string `gorm:"size:4096"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
