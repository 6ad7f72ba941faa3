package controllers

import (
	"party-find-backend/fiberlog"
	"party-find-backend/middleware"
	"party-find-backend/models"
	apimodels "party-find-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request parsing error")
		return errors.New("unable to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("request_id", fiberlog.GetRequestID(ctx)).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("path", ctx.Path())
}

// SendError logs an unexpected failure and answers 500 without exposing its text.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewCodeError(models.ErrCommon))
}

// SendBadRequest answers 400 for input that failed parsing or validation.
func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewValidationError(err.Error()))
}

// SendCode answers a handled business rejection.
func (c *BaseAPIController) SendCode(ctx *fiber.Ctx, hMsg models.ErrorCode) error {
	return ctx.Status(CodeStatus(hMsg)).JSON(apimodels.NewCodeError(hMsg))
}

func CodeStatus(hMsg models.ErrorCode) int {
	switch hMsg {
	case models.ErrConflict:
		return fiber.StatusConflict
	case models.ErrNotAuthor:
		return fiber.StatusForbidden
	case models.ErrNotFound:
		return fiber.StatusNotFound
	case models.ErrUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}
