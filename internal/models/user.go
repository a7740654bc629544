package models

import (
	"time"

	"github.com/lib/pq"
)

// User roles. The identity provider issues tokens carrying one of these.
const (
	RoleClient  = "CLIENT"
	RoleAdvisor = "ADVISOR"
)

// User represents an account in the marketplace. Accounts are created and
// managed by the external auth service; the chat backend only reads them
// for participant checks and display names.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Nickname     string `gorm:"not null" json:"nickname"`
	ProfileImage string `json:"profileImage"`
	Role         string `gorm:"type:text;not null" json:"role"`
	// Expertise holds the advisor's topic tags. Empty for clients.
	Expertise pq.StringArray `gorm:"type:text[]" json:"expertise,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
