package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core/access"
)

const (
	deviceIDHeader    = "X-Device-ID"
	contextSessionKey = "session"
)

// sessionMiddleware loads the access.Controller of the device identified by the X-Device-ID header.
func sessionMiddleware(sessions *access.Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			deviceID := strings.TrimSpace(ctx.Request().Header.Get(deviceIDHeader))
			if deviceID == "" {
				return errMissingDevice
			}
			ctrl, err := sessions.Get(ctx.Request().Context(), deviceID)
			if err != nil {
				if errors.Cause(err) == access.ErrInvalidDeviceID {
					return errInvalidDevice
				}
				return errors.Wrap(err, "loading session")
			}
			ctx.Set(contextSessionKey, ctrl)
			return next(ctx)
		}
	}
}

// accessMiddleware only lets through sessions whose role may open the named resource.
func accessMiddleware(registry *access.Registry, name string) echo.MiddlewareFunc {
	res, ok := registry.Lookup(name)
	if !ok {
		panic("access: unregistered resource " + name)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctrl, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if !ctrl.CanAccess(res) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (*access.Controller, error) {
	if ctrl, ok := ctx.Get(contextSessionKey).(*access.Controller); ok {
		return ctrl, nil
	}
	return nil, errNoSessionInCtx
}
