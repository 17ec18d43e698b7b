package serverutils

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PostOnly rejects every method but POST with 405 before any other check runs.
func PostOnly(ctx *fiber.Ctx) error {
	if ctx.Method() != fiber.MethodPost {
		ctx.Set(fiber.HeaderAllow, fiber.MethodPost)
		return ctx.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"message": "Method not allowed"})
	}
	return ctx.Next()
}

// BearerSecret requires `Authorization: Bearer <secret>`. An empty secret rejects everything.
func BearerSecret(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") || !secretMatches(secret, header[len("Bearer "):]) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		return ctx.Next()
	}
}

// APIKey requires the given header to carry the secret. An empty secret rejects everything.
func APIKey(header, secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !secretMatches(secret, ctx.Get(header)) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		return ctx.Next()
	}
}

func secretMatches(expected, given string) bool {
	if expected == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
