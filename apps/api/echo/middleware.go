package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core/session"
)

// authMiddleware rejects anonymous requests.
func authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := getContextSession(ctx); !ok {
			return errUnauthorized
		}
		return next(ctx)
	}
}

// panelMiddleware only lets through users whose role maps to the given panel.
func panelMiddleware(kind session.PanelKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, ok := getContextSession(ctx)
			if !ok {
				return errUnauthorized
			}
			panel, err := session.PanelFor(sess.Role)
			if err != nil {
				return errors.Wrap(err, "resolving panel")
			}
			if panel.Kind != kind {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
