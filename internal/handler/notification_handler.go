package handler

import (
	"strings"

	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/service"
	internalWS "academy-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service   service.INotificationService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewNotificationHandler(service service.INotificationService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ServeWs upgrades an authenticated request. Browsers cannot set headers on
// a websocket handshake, so the token may also come from ?token=.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = authHeader[len("Bearer "):]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	principal, err := serverutils.ParseToken(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Invalid token in websocket handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID := principal.UserId
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID.String()})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID.String()})
	})(c)
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	p, ok := serverutils.CurrentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	page, err := h.service.List(c.UserContext(), p.UserId, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Notifications retrieved", page))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	p, ok := serverutils.CurrentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	count, err := h.service.UnreadCount(c.UserContext(), p.UserId)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Unread count retrieved", fiber.Map{"count": count}))
}

// MarkAsRead answers 404 for notifications addressed to someone else.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	p, ok := serverutils.CurrentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid ID"))
	}

	if err := h.service.MarkAsRead(c.UserContext(), id, p.UserId); err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	p, ok := serverutils.CurrentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	if err := h.service.MarkAllAsRead(c.UserContext(), p.UserId); err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse[any]("All notifications marked as read", nil))
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router, jwtMiddleware fiber.Handler) {
	notif := router.Group("/notifications", jwtMiddleware)
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Patch("/read-all", h.MarkAllAsRead)
	notif.Patch("/:id/read", h.MarkAsRead)

	router.Get("/ws", h.ServeWs)
}
