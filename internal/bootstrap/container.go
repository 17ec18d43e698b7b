package bootstrap

import (
	"context"

	"academy-be/internal/config"
	"academy-be/internal/controller"
	"academy-be/internal/handler"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/mailer"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/repository/unitofwork"
	"academy-be/internal/scheduler"
	"academy-be/internal/service"
	"academy-be/internal/websocket"
	"academy-be/pkg/billing"
	"academy-be/pkg/events"
	pktNats "academy-be/pkg/nats"
	"academy-be/pkg/subscription"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	CronController         controller.CronController
	FeeController          controller.FeeController
	SubscriptionController controller.SubscriptionController
	JwtMiddleware          fiber.Handler

	// Jobs
	CronService service.ICronService
	Scheduler   *scheduler.Scheduler // nil unless SCHEDULER_ENABLED

	// WebSockets & Notification
	NotificationService service.INotificationService
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	emailService := mailer.NewNoopEmailService()
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)

	c := &Container{Logger: sysLogger, pubSub: pubSub}

	// NATS is optional: without it domain events are dropped and no
	// notify.* requests are accepted.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			c.natsPub = natsPub
			publisher = natsPub
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect NATS subscriber", map[string]interface{}{"error": err.Error()})
		} else {
			c.natsSub = natsSub
		}
	}

	// Redis relays websocket pushes between instances.
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		c.rdb = redis.NewClient(opt)
		if err := c.rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	c.WebSocketHub = websocket.NewHub(c.rdb, wsLogger)

	// 3. Services
	c.NotificationService = service.NewNotificationService(uowFactory, pubSub, c.WebSocketHub, c.natsSub, wsLogger)

	generator := billing.NewGenerator(uowFactory, c.NotificationService, publisher, sysLogger)
	checker := subscription.NewChecker(uowFactory, c.NotificationService, emailService, publisher, sysLogger)
	c.CronService = service.NewCronService(generator, checker, cfg.Location(), sysLogger)

	feeService := service.NewFeeService(uowFactory, c.NotificationService, sysLogger)
	subscriptionService := service.NewSubscriptionService(uowFactory, c.NotificationService, sysLogger)

	if cfg.Scheduler.Enabled {
		s, err := scheduler.New(cfg.Scheduler, cfg.Location(), c.CronService, sysLogger)
		if err != nil {
			sysLogger.Error("Bootstrap", "Scheduler disabled: bad schedule", map[string]interface{}{"error": err.Error()})
		} else {
			c.Scheduler = s
		}
	}

	// 4. Controllers
	c.JwtMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	c.CronController = controller.NewCronController(c.CronService, cfg.Auth.CronSecret, cfg.Auth.CronAPIKey)
	c.FeeController = controller.NewFeeController(feeService)
	c.SubscriptionController = controller.NewSubscriptionController(subscriptionService)
	c.NotificationHandler = handler.NewNotificationHandler(c.NotificationService, c.WebSocketHub, cfg.Auth.JwtSecret, wsLogger)

	return c
}

// StartBackground runs the websocket hub, the notification consumers and the
// scheduler until ctx is cancelled.
func (c *Container) StartBackground(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.NotificationService.Start(ctx); err != nil {
		return err
	}

	if c.Scheduler != nil {
		c.Scheduler.Start()
	}
	return nil
}

func (c *Container) Close() {
	if c.Scheduler != nil {
		<-c.Scheduler.Stop().Done()
	}
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.pubSub.Close()
	_ = c.Logger.Sync()
}
