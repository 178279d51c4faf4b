package services

import (
	"errors"
	"fmt"

	"ff-portal/logger"
	"ff-portal/rules"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return e.What + " not found" }

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{What: what}
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func ruleStatus(e *rules.Error) int {
	switch e {
	case rules.ErrTournamentFull, rules.ErrTournamentClosed, rules.ErrNotFinished:
		return fiber.StatusForbidden
	case rules.ErrAlreadyJoined, rules.ErrAlreadyRewarded:
		return fiber.StatusConflict
	}
	return fiber.StatusBadRequest
}

// respondError renders err as the JSON error body clients expect.
func respondError(c *fiber.Ctx, err error) error {
	var ruleErr *rules.Error
	var idErr *IdentityError
	var nf *NotFoundError
	var bad *invalidInput
	switch {
	case errors.As(err, &ruleErr):
		return c.Status(ruleStatus(ruleErr)).JSON(fiber.Map{"error": ruleErr.Message, "code": ruleErr.Code})
	case errors.As(err, &idErr):
		status := idErr.Status
		if status == 0 {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": idErr.Message, "code": idErr.Code})
	case errors.As(err, &bad):
		return badRequest(c, bad.msg)
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Error(), "code": "not_found"})
	}
	logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "code": "bad_request"})
}
