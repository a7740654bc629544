package models

import "time"

// Room is a persistent 1:1 conversation bound to a single paid order.
// Rooms are never hard-deleted; Closed flips to true once and stays true.
type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// OrderID enforces the one-room-per-order invariant.
	OrderID uint              `gorm:"uniqueIndex;not null" json:"orderId"`
	Order   ConsultationOrder `gorm:"foreignKey:OrderID" json:"-"`

	// LastMessage / LastMessageAt are a denormalized preview of the most
	// recent message. Updated in the same transaction as the message insert.
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`

	Closed bool `gorm:"not null;default:false" json:"closed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// HasParticipant reports whether userID is one of the two sides of the
// room. Requires Order to be loaded.
func (r *Room) HasParticipant(userID uint) bool {
	return userID == r.Order.ClientID || userID == r.Order.AdvisorID
}

// Counterpart returns the other participant's user ID. The caller must
// have verified that userID is a participant.
func (r *Room) Counterpart(userID uint) uint {
	if userID == r.Order.ClientID {
		return r.Order.AdvisorID
	}
	return r.Order.ClientID
}
