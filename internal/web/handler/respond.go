// Package handler holds what the JSON handlers share: route roots, parameter
// parsing and the mapping of engine results onto HTTP status codes.
package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/permission"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// MutationBody is the JSON body of a successful mutation.
type MutationBody struct {
	ID      uint   `json:"id,omitempty"`
	Changes []uint `json:"changes"`
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" id")
	}

	return uint(id), nil
}

// ParamUserID parses a positive numeric user id route parameter.
func ParamUserID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" id")
	}

	return id, nil
}

// ParseBody decodes the JSON body into req and validates it.
func ParseBody(c *fiber.Ctx, v *validator.Validate, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := v.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return nil
}

// Status maps an engine refusal onto an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, permission.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, permission.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, permission.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, permission.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Mutation writes the outcome of an engine operation.
func Mutation(c *fiber.Ctx, operation string, res permission.Result, err error, okStatus int) error {
	if err != nil {
		log.Error().Err(err).Str("operation", operation).Str("path", c.Path()).Msg("permission operation failed")

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: "internal server error"})
	}

	if !res.OK() {
		return c.Status(Status(res.Err)).JSON(ErrorBody{Error: res.Reason()})
	}

	changes := res.Changes
	if changes == nil {
		changes = []uint{}
	}

	return c.Status(okStatus).JSON(MutationBody{ID: res.ID, Changes: changes})
}

// Failure writes a query error. Unknown errors are logged and hidden from the client.
func Failure(c *fiber.Ctx, err error) error {
	status := Status(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

		return c.Status(status).JSON(ErrorBody{Error: "internal server error"})
	}

	return c.Status(status).JSON(ErrorBody{Error: err.Error()})
}
