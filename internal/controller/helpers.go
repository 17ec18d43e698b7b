package controller

import (
	"academy-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func caller(ctx *fiber.Ctx) (serverutils.Principal, error) {
	p, ok := serverutils.CurrentPrincipal(ctx)
	if !ok {
		return serverutils.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return p, nil
}

func paramId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// optionalUUID returns nil for a missing query value.
func optionalUUID(ctx *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
	}
	return &id, nil
}

func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
