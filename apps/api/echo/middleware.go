package echoapi

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
)

const objectKey = "object"

// objectMiddleware loads the object identified by the `:id` path param into the context.
func objectMiddleware[T any](get func(ctx context.Context, id int) (T, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := strconv.Atoi(ctx.Param("id"))
			if err != nil || id <= 0 {
				return errHttpNotFound
			}
			obj, err := get(ctx.Request().Context(), id)
			if err != nil {
				if core.IsNotFound(err) {
					return err
				}
				return errors.Wrap(err, "getting object by ID")
			}
			ctx.Set(objectKey, obj)
			return next(ctx)
		}
	}
}

func contextObject[T any](ctx echo.Context) (T, error) {
	obj, ok := ctx.Get(objectKey).(T)
	if !ok {
		return obj, errors.Wrap(errObjNotFoundInCtx, "retrieving object from context")
	}
	return obj, nil
}
