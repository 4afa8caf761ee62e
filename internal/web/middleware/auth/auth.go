package auth

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/web/handler"
)

// LocalsCaller is the fiber.Locals key holding the caller's user id.
const LocalsCaller = "caller"

// Checker answers permission checks, implemented by permission.Resolver.
type Checker interface {
	HasPermission(ctx context.Context, userID uint64, companyID uint, resource, action string) (bool, error)
}

// Caller reads the caller's user id from header and stores it in the locals.
// Requests without a valid id are rejected with 401.
func Caller(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(header)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorBody{Error: "missing " + header + " header"})
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			log.Warn().Str("header", header).Str("value", raw).Msg("invalid caller id")
			return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorBody{Error: "invalid " + header + " header"})
		}

		c.Locals(LocalsCaller, id)

		return c.Next()
	}
}

// CallerID returns the caller stored by Caller, zero if there is none.
func CallerID(c *fiber.Ctx) uint64 {
	id, _ := c.Locals(LocalsCaller).(uint64)
	return id
}

// RequirePermission creates Fiber middleware that requires the caller to hold
// resource.action in the company of the :company route parameter.
func RequirePermission(checker Checker, resource, action string) fiber.Handler {
	return requirePermission(checker, resource, action, "")
}

// RequireSelfOrPermission is RequirePermission, except that callers asking about
// themselves through the userParam route parameter are let through.
func RequireSelfOrPermission(checker Checker, userParam, resource, action string) fiber.Handler {
	return requirePermission(checker, resource, action, userParam)
}

func requirePermission(checker Checker, resource, action, userParam string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID := CallerID(c)
		if callerID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorBody{Error: "unauthorized"})
		}

		companyID, err := handler.ParamID(c, "company")
		if err != nil {
			return err
		}

		if userParam != "" {
			if userID, errUser := handler.ParamUserID(c, userParam); errUser == nil && userID == callerID {
				return c.Next()
			}
		}

		allowed, err := checker.HasPermission(c.UserContext(), callerID, companyID, resource, action)
		if err != nil {
			log.Error().Err(err).
				Uint64("user_id", callerID).
				Uint("company_id", companyID).
				Str("permission", resource+"."+action).
				Msg("failed to check permission")

			return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorBody{Error: "internal server error"})
		}

		if !allowed {
			log.Warn().
				Uint64("user_id", callerID).
				Uint("company_id", companyID).
				Str("permission", resource+"."+action).
				Msg("user lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(handler.ErrorBody{Error: "forbidden"})
		}

		return c.Next()
	}
}
