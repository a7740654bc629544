package models

import "time"

// Order statuses.
const (
	OrderStatusPaid      = "PAID"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ConsultationOrder is a paid booking between a client and an advisor.
// Payment itself is handled by an external collaborator; once an order is
// paid it becomes the anchor for exactly one consultation room.
type ConsultationOrder struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ClientID  uint `gorm:"not null;index" json:"clientId"`
	AdvisorID uint `gorm:"not null;index" json:"advisorId"`

	Client  User `gorm:"foreignKey:ClientID" json:"-"`
	Advisor User `gorm:"foreignKey:AdvisorID" json:"-"`

	Topic           string    `gorm:"not null" json:"topic"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`
	Amount          int       `gorm:"not null" json:"amount"`
	PaidAt          time.Time `json:"paidAt"`
	Status          string    `gorm:"type:text;not null" json:"status"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
