package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
)

const (
	statusUp   = "UP"
	statusDown = "DOWN"

	checkTimeout = 5 * time.Second
)

type (
	HealthResponse struct {
		Status    string           `json:"status"`
		Timestamp string           `json:"timestamp"`
		Uptime    string           `json:"uptime"`
		Version   string           `json:"version"`
		Checks    map[string]Check `json:"checks"`
	}

	Check struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	}

	healthApi struct {
		db        core.DB
		sessions  *session.Manager
		version   string
		startTime time.Time
	}
)

func registerHealthAPI(e *echo.Echo, conf *core.Config, db core.DB, sessions *session.Manager) {
	api := healthApi{
		db:        db,
		sessions:  sessions,
		version:   conf.Build,
		startTime: time.Now(),
	}

	e.GET("/health", api.health)
	e.GET("/health/live", api.health)
	e.GET("/health/ready", api.ready)
}

// health is a liveness check: the process is running.
func (api *healthApi) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.response(statusUp, map[string]Check{"process": {Status: statusUp}}))
}

// ready checks the database and the session store.
func (api *healthApi) ready(ctx echo.Context) error {
	checks := map[string]Check{
		"database": api.check(ctx.Request().Context(), "database", api.pingDB),
		"sessions": api.check(ctx.Request().Context(), "session store", api.sessions.Ping),
	}

	status, code := statusUp, http.StatusOK
	for _, c := range checks {
		if c.Status != statusUp {
			status, code = statusDown, http.StatusServiceUnavailable
			break
		}
	}
	return ctx.JSON(code, api.response(status, checks))
}

func (api *healthApi) pingDB(ctx context.Context) error {
	if api.db == nil { // in-memory storage
		return nil
	}
	return api.db.PingContext(ctx)
}

func (api *healthApi) check(ctx context.Context, name string, ping func(context.Context) error) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return Check{Status: statusDown, Message: "cannot connect to " + name}
	}
	return Check{Status: statusUp}
}

func (api *healthApi) response(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(api.startTime).Round(time.Second).String(),
		Version:   api.version,
		Checks:    checks,
	}
}
