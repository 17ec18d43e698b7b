package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification stores the in-app notification history.
type Notification struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type       string         `gorm:"type:varchar(50);not null;index:idx_notifications_dedupe,priority:2" json:"type"`
	Title      string         `gorm:"type:varchar(200);not null;index:idx_notifications_dedupe,priority:3" json:"title"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	SenderID   *uuid.UUID     `gorm:"type:uuid" json:"sender_id,omitempty"`
	ReceiverID uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_dedupe,priority:1;index:idx_notifications_receiver_unread,priority:1" json:"receiver_id"`
	IsRead     bool           `gorm:"default:false;index:idx_notifications_receiver_unread,priority:2" json:"is_read"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"index:idx_notifications_dedupe,priority:4" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
