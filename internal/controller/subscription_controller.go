package controller

import (
	"academy-be/internal/dto"
	"academy-be/internal/entity"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SubscriptionController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type subscriptionController struct {
	subscriptionService service.ISubscriptionService
}

func NewSubscriptionController(subscriptionService service.ISubscriptionService) SubscriptionController {
	return &subscriptionController{
		subscriptionService: subscriptionService,
	}
}

// RegisterRoutes does not check that the admin is still active: a disabled
// admin must be able to renew.
func (c *subscriptionController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	subs := api.Group("/subscriptions", jwtMiddleware)
	subs.Get("/", serverutils.RequireRoles(entity.UserRoleDeveloper, entity.UserRoleAdmin), c.List)
	subs.Post("/", serverutils.RequireRoles(entity.UserRoleAdmin), c.Create)
	subs.Post("/:id/payment", serverutils.RequireRoles(entity.UserRoleAdmin), c.SubmitPayment)
	subs.Patch("/:id/verify", serverutils.RequireRoles(entity.UserRoleDeveloper), c.Verify)
	subs.Patch("/:id/cancel", serverutils.RequireRoles(entity.UserRoleDeveloper, entity.UserRoleAdmin), c.Cancel)
}

func (c *subscriptionController) List(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	adminId, err := optionalUUID(ctx, "admin_id")
	if err != nil {
		return err
	}

	query := dto.ListSubscriptionsQuery{
		AdminId: adminId,
		Status:  ctx.Query("status"),
		Limit:   ctx.QueryInt("limit", 20),
		Offset:  ctx.QueryInt("offset", 0),
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.subscriptionService.List(ctx.UserContext(), p, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Subscriptions retrieved", res))
}

// Create
// @Summary Open a renewal subscription for the calling admin
// @Tags Subscriptions
// @Security BearerAuth
// @Param body body dto.CreateSubscriptionRequest true "subscription"
// @Success 201 {object} dto.SubscriptionResponse
// @Router /api/subscriptions [post]
func (c *subscriptionController) Create(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSubscriptionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.subscriptionService.Create(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Subscription created", res))
}

func (c *subscriptionController) SubmitPayment(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitSubscriptionPaymentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.subscriptionService.SubmitPayment(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Payment submitted", res))
}

// Verify
// @Summary Activate a paid subscription and re-enable the academy
// @Tags Subscriptions
// @Security BearerAuth
// @Success 200 {object} dto.SubscriptionResponse
// @Router /api/subscriptions/{id}/verify [patch]
func (c *subscriptionController) Verify(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.Verify(ctx.UserContext(), p, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Subscription activated", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.Cancel(ctx.UserContext(), p, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", res))
}
