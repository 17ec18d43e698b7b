package controller

import (
	"academy-be/internal/dto"
	"academy-be/internal/entity"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FeeController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type feeController struct {
	feeService service.IFeeService
}

func NewFeeController(feeService service.IFeeService) FeeController {
	return &feeController{
		feeService: feeService,
	}
}

func (c *feeController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	adminOnly := serverutils.RequireRoles(entity.UserRoleAdmin)

	defs := api.Group("/fee-definitions", jwtMiddleware, adminOnly)
	defs.Post("/", c.CreateDefinition)
	defs.Get("/", c.ListDefinitions)
	defs.Put("/:id", c.UpdateDefinition)
	defs.Patch("/:id/deactivate", c.DeactivateDefinition)

	fees := api.Group("/fees", jwtMiddleware)
	fees.Get("/", serverutils.RequireRoles(entity.UserRoleAdmin, entity.UserRoleParent), c.ListFees)
	fees.Post("/", adminOnly, c.CreateFee)
	fees.Post("/:id/payment", serverutils.RequireRoles(entity.UserRoleParent), c.SubmitPayment)
	fees.Patch("/:id/verify", adminOnly, c.VerifyPayment)
	fees.Patch("/:id/reject", adminOnly, c.RejectPayment)
	fees.Patch("/:id/cancel", adminOnly, c.CancelFee)
}

// CreateDefinition
// @Summary Create a fee definition for a student
// @Tags Fees
// @Security BearerAuth
// @Param body body dto.CreateFeeDefinitionRequest true "definition"
// @Success 201 {object} dto.FeeDefinitionResponse
// @Router /api/fee-definitions [post]
func (c *feeController) CreateDefinition(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateFeeDefinitionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.feeService.CreateDefinition(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Fee definition created", res))
}

func (c *feeController) ListDefinitions(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	studentId, err := optionalUUID(ctx, "student_id")
	if err != nil {
		return err
	}

	res, err := c.feeService.ListDefinitions(ctx.UserContext(), p, dto.ListFeeDefinitionsQuery{
		StudentId:  studentId,
		ActiveOnly: ctx.QueryBool("active_only", false),
		Limit:      ctx.QueryInt("limit", 20),
		Offset:     ctx.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Fee definitions retrieved", res))
}

func (c *feeController) UpdateDefinition(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateFeeDefinitionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.feeService.UpdateDefinition(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Fee definition updated", res))
}

func (c *feeController) DeactivateDefinition(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	if err := c.feeService.DeactivateDefinition(ctx.UserContext(), p, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Fee definition deactivated", nil))
}

// ListFees
// @Summary List fees. Admins see their academy, parents see their children.
// @Tags Fees
// @Security BearerAuth
// @Param status query string false "PENDING, PROCESSING, PAID, OVERDUE or CANCELLED"
// @Param student_id query string false "student"
// @Param month query int false "1-12"
// @Param year query int false "year"
// @Success 200 {object} serverutils.Page[dto.FeeResponse]
// @Router /api/fees [get]
func (c *feeController) ListFees(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	studentId, err := optionalUUID(ctx, "student_id")
	if err != nil {
		return err
	}

	query := dto.ListFeesQuery{
		StudentId: studentId,
		Status:    ctx.Query("status"),
		Month:     ctx.QueryInt("month", 0),
		Year:      ctx.QueryInt("year", 0),
		Limit:     ctx.QueryInt("limit", 20),
		Offset:    ctx.QueryInt("offset", 0),
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.feeService.ListFees(ctx.UserContext(), p, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Fees retrieved", res))
}

func (c *feeController) CreateFee(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateFeeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.feeService.CreateFee(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Fee created", res))
}

// SubmitPayment
// @Summary Submit proof of payment for a fee
// @Tags Fees
// @Security BearerAuth
// @Param body body dto.SubmitFeePaymentRequest true "payment"
// @Success 200 {object} dto.FeeResponse
// @Router /api/fees/{id}/payment [post]
func (c *feeController) SubmitPayment(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitFeePaymentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.feeService.SubmitPayment(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Payment submitted", res))
}

func (c *feeController) VerifyPayment(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	res, err := c.feeService.VerifyPayment(ctx.UserContext(), p, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Payment verified", res))
}

func (c *feeController) RejectPayment(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	var req dto.RejectPaymentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.feeService.RejectPayment(ctx.UserContext(), p, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Payment rejected", res))
}

func (c *feeController) CancelFee(ctx *fiber.Ctx) error {
	p, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := paramId(ctx)
	if err != nil {
		return err
	}

	res, err := c.feeService.CancelFee(ctx.UserContext(), p, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Fee cancelled", res))
}
