package dto

import (
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	Id         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	SenderId   *uuid.UUID             `json:"sender_id,omitempty"`
	ReceiverId uuid.UUID              `json:"receiver_id"`
	IsRead     bool                   `json:"is_read"`
	ReadAt     *time.Time             `json:"read_at,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		Id:         n.Id,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		SenderId:   n.SenderId,
		ReceiverId: n.ReceiverId,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		Metadata:   n.Metadata,
		CreatedAt:  n.CreatedAt,
	}
}

// NotifyRequest is the JSON body other services publish on events.notify.*.
type NotifyRequest struct {
	Type       string                 `json:"type"`
	Title      string                 `json:"title" validate:"required"`
	Message    string                 `json:"message" validate:"required"`
	SenderId   *uuid.UUID             `json:"sender_id"`
	ReceiverId uuid.UUID              `json:"receiver_id" validate:"required"`
	Metadata   map[string]interface{} `json:"metadata"`
}
