package model

import "time"

// Priority classifies message urgency. It affects display only, not
// delivery semantics.
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

// Message represents a one-to-one message between two users.
// Timestamp is set at creation and immutable; IsRead transitions
// false -> true exactly once.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SenderID       uint      `json:"sender_id" gorm:"not null;index"`
	RecipientID    uint      `json:"recipient_id" gorm:"not null;index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	Timestamp      time.Time `json:"timestamp" gorm:"not null;index"`
	IsRead         bool      `json:"is_read" gorm:"default:false"`
	Priority       Priority  `json:"priority" gorm:"type:varchar(20);default:'normal'"`
	AttachmentPath string    `json:"attachment_path,omitempty" gorm:"size:512"`
	AttachmentName string    `json:"attachment_name,omitempty" gorm:"size:255"`

	// Relations
	Sender    User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// HasAttachment reports whether a file is attached to the message.
func (m *Message) HasAttachment() bool {
	return m.AttachmentPath != ""
}
