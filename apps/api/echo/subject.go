package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/subject"
)

type subjectApi struct {
	svc      *subject.Service
	validate *validator.Validate
}

func registerSubjectAPI(g *echo.Group, svc *subject.Service, validate *validator.Validate) {
	api := subjectApi{svc: svc, validate: validate}

	sg := g.Group("/subjects")
	sg.GET("", api.query)
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:id", objectMiddleware(svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	sbj, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sbj)
}

func (api *subjectApi) query(ctx echo.Context) error {
	filter := new(subject.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []subject.Subject{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	subjects, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []subject.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	sbj, err := contextObject[subject.Subject](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sbj)
}

func (api *subjectApi) update(ctx echo.Context) error {
	sbj, err := contextObject[subject.Subject](ctx)
	if err != nil {
		return err
	}

	var data subject.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc, sbj); err != nil {
		return err
	}

	sbj, err = api.svc.Update(ctx.Request().Context(), sbj, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, sbj)
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	sbj, err := contextObject[subject.Subject](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), sbj.ID); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}
