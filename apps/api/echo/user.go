package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
	"github.com/hometuition/portal/core/user"
)

const signupSuccessMsg = "Account created. Please log in."

type userApi struct {
	svc      *user.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerUserAPI(
	g *echo.Group,
	sessMw echo.MiddlewareFunc,
	auth *authenticator,
	svc *user.Service,
	validate *validator.Validate,
) {
	api := userApi{
		svc:      svc,
		auth:     auth,
		validate: validate,
	}

	ug := g.Group("/users", sessMw)

	// un-authed endpoints
	ug.POST("/signup", api.signup)
	ug.POST("/login", api.login)

	// authed endpoints
	ug.POST("/logout", api.logout, authMiddleware)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	if _, err := api.svc.Signup(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "signing up")
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: signupSuccessMsg})
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	usr, ok, err := api.svc.Login(reqCtx, data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	if !ok {
		return core.NewValidationError(user.ErrInvalidCredentials)
	}
	if _, err = session.PanelFor(usr.Role); err != nil {
		return errors.Wrap(err, "resolving panel")
	}

	sess, err := api.auth.sessions.Create(reqCtx, usr)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	token, err := api.auth.GenerateToken(sess)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	view, err := session.AuthenticatedView(sess)
	if err != nil {
		return errors.Wrap(err, "building session view")
	}

	setSessionCookie(ctx, token, sess.ExpiresAt)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt, Session: view})
}

func (api *userApi) logout(ctx echo.Context) error {
	sess, _ := getContextSession(ctx)
	if err := api.auth.sessions.Destroy(ctx.Request().Context(), sess.ID); err != nil {
		return errors.Wrap(err, "destroying session")
	}
	clearSessionCookie(ctx)
	return ctx.JSON(http.StatusOK, session.AnonymousView())
}

// Request & Response types

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Session   session.View `json:"session"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}
