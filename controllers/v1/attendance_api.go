package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"teamtrack-backend/controllers"
	"teamtrack-backend/db"
	attendancehandler "teamtrack-backend/lib/attendance"
	attendancestore "teamtrack-backend/lib/attendance/store"
	xlsexport "teamtrack-backend/lib/export/xls"
	"teamtrack-backend/middleware"
	apimodels "teamtrack-backend/models/api"
	attendanceapimodels "teamtrack-backend/models/api/attendance"
)

type attendanceApiController struct {
	controllers.BaseAPIController
}

func InitAttendanceApiRouters(app *fiber.App) {
	controller := attendanceApiController{}
	app.Route("attendance", func(router fiber.Router) {
		router.Post("clock_in", controller.clockIn)
		router.Put("clock_out", controller.clockOut)
		router.Post("break/start", controller.startBreak)
		router.Put("break/end", controller.endBreak)
		router.Get("status", controller.status)
		router.Post("my", controller.myHistory)
		router.Get("my/summary", controller.mySummary)

		router.Post("list", middleware.AdminRoleRequired(), controller.list)
		router.Get("today", middleware.AdminRoleRequired(), controller.today)
		router.Post("export", middleware.AdminRoleRequired(), controller.export)
		router.Put(":id/adjust", middleware.AdminRoleRequired(), controller.adjust)
	})
}

// @Summary Clock in
// @Tags Attendance
// @Description Open today's attendance record. Fails with a conflict when already clocked in.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 attendanceapimodels.ClockInData	true	"request body"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.AttendanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/clock_in [post]
func (c *attendanceApiController) clockIn(ctx *fiber.Ctx) error {
	var payload attendanceapimodels.ClockInData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.IP == "" {
		payload.IP = ctx.IP()
	}
	view, err := attendancehandler.Instance.ClockIn(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to clock in")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Clock out
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.AttendanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/clock_out [put]
func (c *attendanceApiController) clockOut(ctx *fiber.Ctx) error {
	view, err := attendancehandler.Instance.ClockOut(middleware.GetUserID(ctx), ctx.IP())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to clock out")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Start break
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 attendanceapimodels.BreakStartData	true	"request body"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.BreakView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/break/start [post]
func (c *attendanceApiController) startBreak(ctx *fiber.Ctx) error {
	var payload attendanceapimodels.BreakStartData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := attendancehandler.Instance.StartBreak(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to start break")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary End break
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.BreakView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/break/end [put]
func (c *attendanceApiController) endBreak(ctx *fiber.Ctx) error {
	view, err := attendancehandler.Instance.EndBreak(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to end break")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Today's status
// @Tags Attendance
// @Description The caller's attendance state for today. Empty state means not clocked in.
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.StatusView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/status [get]
func (c *attendanceApiController) status(ctx *fiber.Ctx) error {
	view, err := attendancehandler.Instance.Status(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get attendance status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary My attendance history
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 attendanceapimodels.HistoryFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]attendanceapimodels.AttendanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/my [post]
func (c *attendanceApiController) myHistory(ctx *fiber.Ctx) error {
	var filter attendanceapimodels.HistoryFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := attendancehandler.Instance.MyHistory(middleware.GetUserID(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list attendance")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary My attendance summary
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   from 	    		query   string	false	"period start (RFC3339 date)"
// @Param   to 	    			query   string	false	"period end (RFC3339 date)"
// @Success 200 {object} apimodels.Response{data=attendanceapimodels.SummaryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/my/summary [get]
func (c *attendanceApiController) mySummary(ctx *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, -1, 0)
	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid from date"))
		}
		from = parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid to date"))
		}
		to = parsed
	}
	view, err := attendancehandler.Instance.Summary(middleware.GetUserID(ctx), from, to)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to build summary")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Attendance list
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 attendanceapimodels.AdminFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]attendanceapimodels.AttendanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/list [post]
func (c *attendanceApiController) list(ctx *fiber.Ctx) error {
	var filter attendanceapimodels.AdminFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := attendancehandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list attendance")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Today's attendance
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]attendanceapimodels.AttendanceView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/today [get]
func (c *attendanceApiController) today(ctx *fiber.Ctx) error {
	list, err := attendancehandler.Instance.Today()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list attendance")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Export attendance to xlsx
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 attendanceapimodels.AdminFilter	true	"request body"
// @Success 200 {file} binary
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/export [post]
func (c *attendanceApiController) export(ctx *fiber.Ctx) error {
	var filter attendanceapimodels.AdminFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	recs, err := attendancestore.NewInstance(db.DB).List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list attendance")
	}
	buf, err := xlsexport.Instance.ExportAttendanceList(recs)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export attendance")
	}
	fileName := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Adjust attendance record
// @Tags Attendance
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Param	body body	 attendanceapimodels.AdjustData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/attendance/{id}/adjust [put]
func (c *attendanceApiController) adjust(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload attendanceapimodels.AdjustData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = attendancehandler.Instance.Adjust(middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to adjust attendance")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
