package models

import "time"

// Message types carried on the wire and stored in the type column.
const (
	MessageTypeText   = "TEXT"
	MessageTypeImage  = "IMAGE"
	MessageTypeSystem = "SYSTEM"
)

// ImagePreview is what a room summary shows for an image message.
const ImagePreview = "[image]"

// Message is one chat message inside a Room. ReceiverID is always derived
// on the server from the room's participants, never taken from the client.
// The two deletion flags implement soft-delete-per-viewer: the row stays,
// visibility is computed per side.
type Message struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	RoomID uint `gorm:"not null;index:idx_room_sent" json:"roomId"`

	SenderID   uint `gorm:"not null;index" json:"senderId"`
	ReceiverID uint `gorm:"not null;index" json:"receiverId"`

	Body     string `gorm:"type:text" json:"body,omitempty"`
	ImageURL string `gorm:"type:text" json:"imageUrl,omitempty"`
	Type     string `gorm:"type:text;not null" json:"type"`

	SentAt time.Time `gorm:"not null;index:idx_room_sent" json:"sentAt"`

	// IsRead is flipped to true by the receiver only, never back.
	IsRead bool `gorm:"not null;default:false" json:"isRead"`

	DeletedBySender   bool `gorm:"not null;default:false" json:"-"`
	DeletedByReceiver bool `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// VisibleTo reports whether viewerID still sees this message after any
// leave events. Each side hides messages independently.
func (m *Message) VisibleTo(viewerID uint) bool {
	if viewerID == m.SenderID {
		return !m.DeletedBySender
	}
	return !m.DeletedByReceiver
}

// Preview is the text shown in the room summary for this message.
func (m *Message) Preview() string {
	if m.Type == MessageTypeImage || (m.Body == "" && m.ImageURL != "") {
		return ImagePreview
	}
	return m.Body
}

// MarkLeft records that userID left the room this message belongs to,
// flipping the deletion flag for whichever side userID is on. Reports
// whether the message changed.
func (m *Message) MarkLeft(userID uint) bool {
	changed := false
	if userID == m.SenderID && !m.DeletedBySender {
		m.DeletedBySender = true
		changed = true
	}
	if userID == m.ReceiverID && !m.DeletedByReceiver {
		m.DeletedByReceiver = true
		changed = true
	}
	return changed
}

// DepartedByBoth reports whether both sides have left every message.
// Vacuously true for an empty history, so a room with no messages closes
// on the first leave.
func DepartedByBoth(msgs []Message) bool {
	for i := range msgs {
		if !msgs[i].DeletedBySender || !msgs[i].DeletedByReceiver {
			return false
		}
	}
	return true
}
