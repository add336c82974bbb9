package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core/session"
	"github.com/hometuition/portal/core/tuition"
)

const (
	inquirySuccessMsg = "Inquiry submitted successfully."
	profileSuccessMsg = "Profile saved."
)

type tuitionApi struct {
	svc *tuition.Service
}

func registerTuitionAPI(g *echo.Group, sessMw echo.MiddlewareFunc, svc *tuition.Service) {
	api := tuitionApi{svc: svc}

	// form options
	fg := g.Group("/forms")
	fg.GET("/inquiry", api.inquiryForm)
	fg.GET("/teacher-profile", api.profileForm)

	// parent & admin panels
	ig := g.Group("/inquiries", sessMw)
	ig.POST("", api.submitInquiry, panelMiddleware(session.ParentPanel))
	ig.GET("", api.listInquiries, panelMiddleware(session.AdminPanel))

	// teacher panel
	tg := g.Group("/teachers", sessMw, panelMiddleware(session.TeacherPanel))
	tg.POST("/profile", api.saveProfile)
	tg.GET("/profile", api.listProfiles)
}

// Handlers

func (api *tuitionApi) inquiryForm(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, tuition.InquiryFormOptions())
}

func (api *tuitionApi) profileForm(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, tuition.ProfileFormOptions())
}

func (api *tuitionApi) submitInquiry(ctx echo.Context) error {
	var data tuition.NewInquiry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInquiry")
	}

	inq, err := api.svc.SubmitInquiry(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting inquiry")
	}
	return ctx.JSON(http.StatusCreated, InquiryResponse{Success: inquirySuccessMsg, Inquiry: inq})
}

func (api *tuitionApi) listInquiries(ctx echo.Context) error {
	inqs, err := api.svc.ListInquiries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing inquiries")
	}
	return ctx.JSON(http.StatusOK, inqs)
}

func (api *tuitionApi) saveProfile(ctx echo.Context) error {
	var data tuition.ProfileForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileForm")
	}

	sess, _ := getContextSession(ctx)
	prof, err := api.svc.SaveTeacherProfile(ctx.Request().Context(), sess.UserID, data)
	if err != nil {
		return errors.Wrap(err, "saving teacher profile")
	}
	return ctx.JSON(http.StatusCreated, ProfileResponse{Success: profileSuccessMsg, Profile: prof})
}

func (api *tuitionApi) listProfiles(ctx echo.Context) error {
	sess, _ := getContextSession(ctx)
	profs, err := api.svc.ListTeacherProfiles(ctx.Request().Context(), sess.UserID)
	if err != nil {
		return errors.Wrap(err, "listing teacher profiles")
	}
	return ctx.JSON(http.StatusOK, profs)
}

// Response types

type InquiryResponse struct {
	Success string          `json:"success"`
	Inquiry tuition.Inquiry `json:"inquiry"`
}

type ProfileResponse struct {
	Success string                 `json:"success"`
	Profile tuition.TeacherProfile `json:"profile"`
}
