package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core/classroom"
)

type classRoomApi struct {
	svc      *classroom.Service
	validate *validator.Validate
}

func registerClassRoomAPI(g *echo.Group, svc *classroom.Service, validate *validator.Validate) {
	api := classRoomApi{svc: svc, validate: validate}

	sg := g.Group("/classes")
	sg.GET("", api.query)
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:id", objectMiddleware(svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *classRoomApi) create(ctx echo.Context) error {
	var data classroom.NewClassRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassRoom")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classRoomApi) query(ctx echo.Context) error {
	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []classroom.ClassRoom{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	classes, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []classroom.ClassRoom{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classRoomApi) retrieve(ctx echo.Context) error {
	cls, err := contextObject[classroom.ClassRoom](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classRoomApi) update(ctx echo.Context) error {
	cls, err := contextObject[classroom.ClassRoom](ctx)
	if err != nil {
		return err
	}

	var data classroom.UpdateClassRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClassRoom")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	cls, err = api.svc.Update(ctx.Request().Context(), cls, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classRoomApi) destroy(ctx echo.Context) error {
	cls, err := contextObject[classroom.ClassRoom](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), cls.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}
