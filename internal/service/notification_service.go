package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"academy-be/internal/dto"
	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/repository/unitofwork"
	"academy-be/pkg/events"
	pktNats "academy-be/pkg/nats"
	"academy-be/pkg/notify"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	notificationModule = "NotificationService"

	// DeliveryTopic carries persisted notifications to the realtime pushers.
	DeliveryTopic = "notifications.deliver"

	// WsEventNotification is the envelope type clients receive over /ws.
	WsEventNotification = "notification"

	intakeDurable = "notification-intake"
)

// NotificationDelivery pushes a payload to every open connection of a user.
// Implemented by the websocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, eventType string, data interface{}) error
}

// PubSub is the in-process bus between persisting and pushing.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

type INotificationService interface {
	notify.Notifier
	Start(ctx context.Context) error
	List(ctx context.Context, receiverId uuid.UUID, limit, offset int) (*serverutils.Page[dto.NotificationResponse], error)
	UnreadCount(ctx context.Context, receiverId uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, receiverId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, receiverId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	store      *notify.RepositoryNotifier
	pubSub     PubSub
	delivery   NotificationDelivery
	subscriber *pktNats.Subscriber
	unread     *cache.Cache
	logger     logger.ILogger
}

// NewNotificationService wires persistence, realtime delivery and the optional
// NATS intake. delivery and subscriber may be nil.
func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	pubSub PubSub,
	delivery NotificationDelivery,
	subscriber *pktNats.Subscriber,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		store:      notify.NewRepositoryNotifier(uowFactory),
		pubSub:     pubSub,
		delivery:   delivery,
		subscriber: subscriber,
		unread:     cache.New(time.Minute, 5*time.Minute),
		logger:     log,
	}
}

// Notify persists the notification and queues it for realtime delivery.
// Delivery problems are logged, the stored row is what counts.
func (s *notificationService) Notify(ctx context.Context, msg notify.Message) (*entity.Notification, error) {
	notification, err := s.store.Notify(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.unread.Delete(unreadKey(notification.ReceiverId))

	payload, err := json.Marshal(dto.NewNotificationResponse(notification))
	if err != nil {
		s.logger.Warn(notificationModule, "Failed to encode notification for delivery", map[string]interface{}{
			"notification_id": notification.Id.String(),
			"error":           err.Error(),
		})
		return notification, nil
	}

	if s.pubSub != nil {
		if err := s.pubSub.Publish(DeliveryTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
			s.logger.Warn(notificationModule, "Failed to queue notification", map[string]interface{}{
				"notification_id": notification.Id.String(),
				"error":           err.Error(),
			})
		}
	}
	return notification, nil
}

// Start launches the delivery consumer and, when NATS is configured, the
// intake for notify.* events raised by other services.
func (s *notificationService) Start(ctx context.Context) error {
	if s.pubSub != nil {
		messages, err := s.pubSub.Subscribe(ctx, DeliveryTopic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", DeliveryTopic, err)
		}
		go func() {
			for msg := range messages {
				s.deliver(msg)
			}
		}()
	}

	if s.subscriber != nil {
		pattern := events.NotifyPrefix + ">"
		if err := s.subscriber.Subscribe(ctx, pattern, intakeDurable, s.handleIntake); err != nil {
			return fmt.Errorf("subscribe %s: %w", pattern, err)
		}
		s.logger.Info(notificationModule, "Listening for notification requests", map[string]interface{}{"pattern": pattern})
	}
	return nil
}

func (s *notificationService) deliver(msg *message.Message) {
	var payload dto.NotificationResponse
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error(notificationModule, "Dropping undecodable delivery", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	if s.delivery != nil {
		if err := s.delivery.Send(payload.ReceiverId, WsEventNotification, payload); err != nil {
			// Offline users read it from the inbox later.
			s.logger.Warn(notificationModule, "Realtime delivery failed", map[string]interface{}{
				"notification_id": payload.Id.String(),
				"error":           err.Error(),
			})
		}
	}
	msg.Ack()
}

// handleIntake turns a notify.<type> event into a stored notification.
// Malformed requests are dropped; only storage failures ask for redelivery.
func (s *notificationService) handleIntake(ctx context.Context, event events.Event) error {
	req, err := decodeNotifyRequest(event)
	if err != nil {
		s.logger.Warn(notificationModule, "Ignoring malformed notification request", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return nil
	}

	notifType := entity.NotificationType(req.Type)
	if !notifType.IsValid() {
		s.logger.Warn(notificationModule, "Ignoring unknown notification type", map[string]interface{}{"type": req.Type})
		return nil
	}

	_, err = s.Notify(ctx, notify.Message{
		Type:       notifType,
		Title:      req.Title,
		Message:    req.Message,
		SenderID:   req.SenderId,
		ReceiverID: req.ReceiverId,
		Metadata:   req.Metadata,
		CreatedAt:  event.Timestamp(),
	})
	return err
}

func decodeNotifyRequest(event events.Event) (*dto.NotifyRequest, error) {
	raw, err := json.Marshal(event.Payload())
	if err != nil {
		return nil, err
	}
	var req dto.NotifyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	if req.Type == "" {
		req.Type = strings.ToUpper(strings.TrimPrefix(event.EventType(), events.NotifyPrefix))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *notificationService) List(ctx context.Context, receiverId uuid.UUID, limit, offset int) (*serverutils.Page[dto.NotificationResponse], error) {
	limit, offset = normalizePage(limit, offset)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := uow.NotificationRepository().FindByReceiver(ctx, receiverId, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		res = append(res, dto.NewNotificationResponse(n))
	}
	return &serverutils.Page[dto.NotificationResponse]{Items: res, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, receiverId uuid.UUID) (int64, error) {
	key := unreadKey(receiverId)
	if cached, found := s.unread.Get(key); found {
		return cached.(int64), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.NotificationRepository().CountUnread(ctx, receiverId)
	if err != nil {
		return 0, err
	}
	s.unread.SetDefault(key, count)
	return count, nil
}

// MarkAsRead only touches notifications addressed to receiverId.
func (s *notificationService) MarkAsRead(ctx context.Context, id, receiverId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().MarkAsRead(ctx, id, receiverId); err != nil {
		return err
	}
	s.unread.Delete(unreadKey(receiverId))
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, receiverId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().MarkAllAsRead(ctx, receiverId); err != nil {
		return err
	}
	s.unread.Delete(unreadKey(receiverId))
	return nil
}

func unreadKey(receiverId uuid.UUID) string {
	return "unread:" + receiverId.String()
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
