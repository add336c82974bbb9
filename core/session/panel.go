package session

import (
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core/user"
)

var ErrUnknownRole = errors.New("unrecognized role")

type PanelKind string

const (
	ParentPanel  PanelKind = "parent"
	TeacherPanel PanelKind = "teacher"
	AdminPanel   PanelKind = "admin"
)

// actions
const (
	ActionLogin         = "login"
	ActionSignup        = "signup"
	ActionLogout        = "logout"
	ActionSubmitInquiry = "submit_inquiry"
	ActionSaveProfile   = "save_profile"
	ActionListProfiles  = "list_profiles"
	ActionListInquiries = "list_inquiries"
	StateAnonymous      = "anonymous"
	StateAuthenticated  = "authenticated"
)

type Panel struct {
	Kind    PanelKind `json:"kind"`
	Title   string    `json:"title"`
	Actions []string  `json:"actions"`
}

// PanelFor maps a role to its panel.
func PanelFor(role user.Role) (Panel, error) {
	switch role {
	case user.RoleParent:
		return Panel{Kind: ParentPanel, Title: "Tuition Inquiry Form", Actions: []string{ActionSubmitInquiry}}, nil
	case user.RoleTeacher:
		return Panel{Kind: TeacherPanel, Title: "Teacher Profile", Actions: []string{ActionSaveProfile, ActionListProfiles}}, nil
	case user.RoleAdmin:
		return Panel{Kind: AdminPanel, Title: "Admin Panel", Actions: []string{ActionListInquiries}}, nil
	default:
		return Panel{}, ErrUnknownRole
	}
}

type (
	ViewUser struct {
		ID    int       `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Role  user.Role `json:"role"`
	}

	// View is what the client renders for the current session.
	View struct {
		State   string    `json:"state"`
		Actions []string  `json:"actions"`
		User    *ViewUser `json:"user,omitempty"`
		Panel   *Panel    `json:"panel,omitempty"`
	}
)

func AnonymousView() View {
	return View{State: StateAnonymous, Actions: []string{ActionLogin, ActionSignup}}
}

func AuthenticatedView(sess Session) (View, error) {
	panel, err := PanelFor(sess.Role)
	if err != nil {
		return View{}, err
	}
	actions := make([]string, 0, len(panel.Actions)+1)
	actions = append(actions, panel.Actions...)
	actions = append(actions, ActionLogout)
	return View{
		State:   StateAuthenticated,
		Actions: actions,
		User:    &ViewUser{ID: sess.UserID, Name: sess.Name, Email: sess.Email, Role: sess.Role},
		Panel:   &panel,
	}, nil
}
