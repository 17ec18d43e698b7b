package serverutils

import (
	"errors"
	"time"

	"academy-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the authenticated caller extracted from a JWT.
type Principal struct {
	UserId  uuid.UUID
	Role    entity.UserRole
	AdminId *uuid.UUID
}

// TenantId is the admin that owns the caller's data.
func (p Principal) TenantId() uuid.UUID {
	if p.Role == entity.UserRoleAdmin || p.AdminId == nil {
		return p.UserId
	}
	return *p.AdminId
}

const principalKey = "principal"

// NewJwtMiddleware verifies an HS256 bearer token and stores the caller in Locals.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		principal, err := ParseToken(secret, authHeader[7:])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals("user_id", principal.UserId.String())
		ctx.Locals(principalKey, principal)
		return ctx.Next()
	}
}

// RequireRoles rejects callers whose role is not listed. Must run after NewJwtMiddleware.
func RequireRoles(roles ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, ok := CurrentPrincipal(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
		}
		for _, r := range roles {
			if principal.Role == r {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Forbidden"))
	}
}

func CurrentPrincipal(ctx *fiber.Ctx) (Principal, bool) {
	p, ok := ctx.Locals(principalKey).(Principal)
	return p, ok
}

func ParseToken(secret, tokenStr string) (Principal, error) {
	if secret == "" {
		return Principal{}, errors.New("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}

	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return Principal{}, errors.New("token missing user_id")
	}

	role := entity.UserRole(stringClaim(claims, "role"))
	if !role.IsValid() {
		return Principal{}, errors.New("token has unknown role")
	}

	principal := Principal{UserId: userId, Role: role}
	if adminIdStr := stringClaim(claims, "admin_id"); adminIdStr != "" {
		adminId, err := uuid.Parse(adminIdStr)
		if err != nil {
			return Principal{}, errors.New("invalid admin_id")
		}
		principal.AdminId = &adminId
	}
	return principal, nil
}

// GenerateToken mints an HS256 token carrying the Principal claims.
func GenerateToken(secret string, p Principal, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": p.UserId.String(),
		"role":    string(p.Role),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if p.AdminId != nil {
		claims["admin_id"] = p.AdminId.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
