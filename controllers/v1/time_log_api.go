package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"teamtrack-backend/controllers"
	timeloghandler "teamtrack-backend/lib/time-log"
	"teamtrack-backend/middleware"
	apimodels "teamtrack-backend/models/api"
	timelogapimodels "teamtrack-backend/models/api/timelog"
)

type timeLogApiController struct {
	controllers.BaseAPIController
}

func InitTimeLogApiRouters(app *fiber.App) {
	controller := timeLogApiController{}
	app.Route("time_logs", func(router fiber.Router) {
		router.Post("my", controller.myLogs)
		router.Route("task/:id", func(taskRoute fiber.Router) {
			taskRoute.Get("", controller.listByTask)
			taskRoute.Put("start", controller.startTimer)
			taskRoute.Put("stop", controller.stopTimer)
			taskRoute.Post("manual", controller.addManual)
		})
	})
}

// @Summary Start timer
// @Tags Time logs
// @Description Open an automatic time entry on the task. Only one can be open per task and user.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"task ID"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/time_logs/task/{id}/start [put]
func (c *timeLogApiController) startTimer(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logID, err := timeloghandler.Instance.StartTimer(middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to start timer")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(logID))
}

// @Summary Stop timer
// @Tags Time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"task ID"
// @Success 200 {object} apimodels.Response{data=timelogapimodels.TimeLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/time_logs/task/{id}/stop [put]
func (c *timeLogApiController) stopTimer(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := timeloghandler.Instance.StopTimer(middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to stop timer")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Add manual time entry
// @Tags Time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"task ID"
// @Param	body body	 timelogapimodels.ManualEntryData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/time_logs/task/{id}/manual [post]
func (c *timeLogApiController) addManual(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload timelogapimodels.ManualEntryData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logID, err := timeloghandler.Instance.AddManual(middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to add time entry")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(logID))
}

// @Summary Task time logs
// @Tags Time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"task ID"
// @Success 200 {object} apimodels.Response{data=[]timelogapimodels.TimeLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/time_logs/task/{id} [get]
func (c *timeLogApiController) listByTask(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, totalMinutes, err := timeloghandler.Instance.ListByTask(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list time logs")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{
		"items":         list,
		"total_minutes": totalMinutes,
	}))
}

// @Summary My time logs
// @Tags Time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timelogapimodels.TimeLogFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]timelogapimodels.TimeLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/time_logs/my [post]
func (c *timeLogApiController) myLogs(ctx *fiber.Ctx) error {
	var filter timelogapimodels.TimeLogFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, totalMinutes, err := timeloghandler.Instance.MyLogs(middleware.GetUserID(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list time logs")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{
		"items":         list,
		"total_minutes": totalMinutes,
	}))
}
