package echoapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports")
	rg.GET("", api.dashboard)
	rg.GET("/export", api.export)
	rg.GET("/classes", api.classes)
	rg.GET("/classes/:id", api.class)
	rg.GET("/students", api.students)
	rg.GET("/students/:id", api.student)
	rg.GET("/teachers", api.teachers)
	rg.GET("/teachers/:id", api.teacher)
	rg.GET("/subjects", api.subjects)
	rg.GET("/grades", api.grades)
}

// Handlers

func (api *reportApi) dashboard(ctx echo.Context) error {
	dashboard, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing dashboard")
	}
	return ctx.JSON(http.StatusOK, dashboard)
}

func (api *reportApi) export(ctx echo.Context) error {
	dashboard, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing dashboard")
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, dashboard); err != nil {
		return errors.Wrap(err, "writing dashboard workbook")
	}
	filename := "report-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, report.XLSXContentType, buf.Bytes())
}

func (api *reportApi) classes(ctx echo.Context) error {
	rows, err := api.svc.ClassReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing class report")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) students(ctx echo.Context) error {
	var filter struct {
		ClassID int `query:"class_id"`
	}
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding student report filter")
	}

	rows, err := api.svc.StudentReport(ctx.Request().Context(), filter.ClassID)
	if err != nil {
		return errors.Wrap(err, "computing student report")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) teachers(ctx echo.Context) error {
	rows, err := api.svc.TeacherReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing teacher report")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) class(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	detail, err := api.svc.ClassDetail(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing class detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *reportApi) student(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	detail, err := api.svc.StudentDetail(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing student detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *reportApi) teacher(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	detail, err := api.svc.TeacherDetail(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing teacher detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *reportApi) subjects(ctx echo.Context) error {
	rows, err := api.svc.SubjectReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing subject report")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) grades(ctx echo.Context) error {
	var filter report.GradeFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding grade report filter")
	}

	rep, err := api.svc.GradeReport(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing grade report")
	}
	return ctx.JSON(http.StatusOK, rep)
}
