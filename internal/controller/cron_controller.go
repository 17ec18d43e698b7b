package controller

import (
	"academy-be/internal/dto"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CronController interface {
	RegisterRoutes(api fiber.Router)
}

type cronController struct {
	cronService service.ICronService
	cronSecret  string
	apiKey      string
}

func NewCronController(cronService service.ICronService, cronSecret, apiKey string) CronController {
	return &cronController{
		cronService: cronService,
		cronSecret:  cronSecret,
		apiKey:      apiKey,
	}
}

// RegisterRoutes mounts both jobs on every method so the 405 guard can answer
// before the secret check does.
func (c *cronController) RegisterRoutes(api fiber.Router) {
	cron := api.Group("/cron")
	cron.All("/generate-fees", serverutils.PostOnly, serverutils.BearerSecret(c.cronSecret), c.GenerateFees)
	cron.All("/check-subscriptions", serverutils.PostOnly, serverutils.APIKey("x-api-key", c.apiKey), c.CheckSubscriptions)
}

// GenerateFees
// @Summary Generate due fees and flag overdue ones
// @Tags Cron
// @Security CronSecret
// @Produce json
// @Success 200 {object} dto.GenerateFeesResponse
// @Router /api/cron/generate-fees [post]
func (c *cronController) GenerateFees(ctx *fiber.Ctx) error {
	result, err := c.cronService.GenerateFees(ctx.UserContext())
	if err != nil {
		return internalError(ctx)
	}

	return ctx.JSON(dto.GenerateFeesResponse{
		Message:       "Fee generation completed",
		Generated:     result.Generated,
		Skipped:       result.Skipped,
		Errors:        result.Errors,
		Total:         result.Total,
		MarkedOverdue: result.MarkedOverdue,
	})
}

// CheckSubscriptions
// @Summary Expire lapsed subscriptions and warn admins about upcoming ones
// @Tags Cron
// @Security CronApiKey
// @Produce json
// @Success 200 {object} dto.CheckSubscriptionsResponse
// @Router /api/cron/check-subscriptions [post]
func (c *cronController) CheckSubscriptions(ctx *fiber.Ctx) error {
	result, err := c.cronService.CheckSubscriptions(ctx.UserContext())
	if err != nil {
		return internalError(ctx)
	}

	return ctx.JSON(dto.CheckSubscriptionsResponse{
		Message:                    "Subscription check completed",
		SubscriptionsExpired:       result.SubscriptionsExpired,
		AdminsDisabled:             result.AdminsDisabled,
		WarningsSent:               result.WarningsSent,
		Errors:                     result.Errors,
		TotalExpiredSubscriptions:  result.TotalExpiredSubscriptions,
		TotalExpiringSubscriptions: result.TotalExpiringSubscriptions,
	})
}

// internalError keeps the cause out of the response; the service already logged it.
func internalError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
}
