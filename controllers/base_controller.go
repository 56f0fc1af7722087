package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"teamtrack-backend/models"
	apimodels "teamtrack-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("missing path parameter %q", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.WithField("path", ctx.Path())
	if requestID := ctx.GetRespHeader(fiber.HeaderXRequestID); requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	return logger
}

// statusByKind maps business error kinds to HTTP statuses. Anything without a
// kind is an internal error.
var statusByKind = map[models.ErrorKind]int{
	models.KindValidation:   fiber.StatusBadRequest,
	models.KindPermission:   fiber.StatusForbidden,
	models.KindNotFound:     fiber.StatusNotFound,
	models.KindInvalidState: fiber.StatusBadRequest,
	models.KindConflict:     fiber.StatusConflict,
	models.KindOwnership:    fiber.StatusForbidden,
}

func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	if kind := models.KindOf(err); kind != "" {
		return ctx.Status(statusByKind[kind]).JSON(apimodels.NewError(err.Error()))
	}
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
}
