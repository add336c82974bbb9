package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core/session"
)

func registerSessionAPI(g *echo.Group, sessMw echo.MiddlewareFunc) {
	g.GET("/session", currentSession, sessMw)
}

// currentSession returns what the client should render: login/signup when anonymous, the role panel otherwise.
func currentSession(ctx echo.Context) error {
	sess, ok := getContextSession(ctx)
	if !ok {
		return ctx.JSON(http.StatusOK, session.AnonymousView())
	}
	view, err := session.AuthenticatedView(sess)
	if err != nil {
		return errors.Wrap(err, "building session view")
	}
	return ctx.JSON(http.StatusOK, view)
}
