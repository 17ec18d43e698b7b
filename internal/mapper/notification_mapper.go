package mapper

import (
	"academy-be/internal/entity"
	"academy-be/internal/model"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	return &entity.Notification{
		Id:         n.ID,
		Type:       entity.NotificationType(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		SenderId:   n.SenderID,
		ReceiverId: n.ReceiverID,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		Metadata:   jsonToMap(n.Metadata),
		CreatedAt:  n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}
	return &model.Notification{
		ID:         n.Id,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		SenderID:   n.SenderId,
		ReceiverID: n.ReceiverId,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		Metadata:   mapToJSON(n.Metadata),
		CreatedAt:  n.CreatedAt,
	}
}
