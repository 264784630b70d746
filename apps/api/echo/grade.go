package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/grade"
)

type gradeApi struct {
	svc      *grade.Service
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, svc *grade.Service, validate *validator.Validate) {
	api := gradeApi{svc: svc, validate: validate}

	sg := g.Group("/grades")
	sg.GET("", api.query)
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:id", objectMiddleware(svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	grd, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, grd)
}

func (api *gradeApi) query(ctx echo.Context) error {
	filter := new(grade.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []grade.Grade{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	grades, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	grd, err := contextObject[grade.Grade](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *gradeApi) update(ctx echo.Context) error {
	grd, err := contextObject[grade.Grade](ctx)
	if err != nil {
		return err
	}

	var data grade.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	grd, err = api.svc.Update(ctx.Request().Context(), grd, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	grd, err := contextObject[grade.Grade](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), grd.ID); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}
