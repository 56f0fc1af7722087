package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"teamtrack-backend/controllers"
	usershandler "teamtrack-backend/lib/users"
	apimodels "teamtrack-backend/models/api"
	authapimodels "teamtrack-backend/models/api/auth"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Get("setup_status", controller.setupStatus)
		router.Post("setup", controller.setup)
	})
}

// @Summary Login
// @Tags Auth
// @Description Exchange credentials for a JWT pair
// @Param	body body	 authapimodels.Login	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.LoginResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.Login
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := usershandler.Instance.Login(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "login failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Setup status
// @Tags Auth
// @Description Report whether the first-run superadmin setup is still required
// @Success 200 {object} apimodels.Response{data=authapimodels.SetupStatus}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/setup_status [get]
func (c *authApiController) setupStatus(ctx *fiber.Ctx) error {
	resp, err := usershandler.Instance.SetupStatus()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get setup status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Setup
// @Tags Auth
// @Description Create the first superadmin; rejected once one exists
// @Param	body body	 authapimodels.Setup	true	"request body"
// @Success 201 {object} apimodels.Response{data=authapimodels.LoginResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/setup [post]
func (c *authApiController) setup(ctx *fiber.Ctx) error {
	var payload authapimodels.Setup
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := usershandler.Instance.SetupSuperAdmin(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "setup failed")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}
