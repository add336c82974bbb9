package tuition

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

const inquirySubject = "New Tuition Inquiry"

type (
	// Repository stores inquiries and teacher profiles. Rows are append-only.
	Repository interface {
		CreateInquiry(ctx context.Context, inq Inquiry) (Inquiry, error)
		QueryAllInquiries(ctx context.Context) ([]Inquiry, error)
		CreateTeacherProfile(ctx context.Context, prof TeacherProfile) (TeacherProfile, error)
		QueryTeacherProfiles(ctx context.Context, userID int) ([]TeacherProfile, error)
	}

	Service struct {
		repo     Repository
		notifier core.Notifier
		validate *validator.Validate
	}
)

func NewService(repo Repository, notifier core.Notifier, validate *validator.Validate) *Service {
	return &Service{repo: repo, notifier: notifier, validate: validate}
}

// SubmitInquiry stores the inquiry then notifies the admin.
// The notification outcome never changes the result.
func (svc *Service) SubmitInquiry(ctx context.Context, ni NewInquiry) (Inquiry, error) {
	if err := ni.Validate(svc.validate); err != nil {
		return Inquiry{}, err
	}

	inq, err := svc.repo.CreateInquiry(ctx, Inquiry{
		StudentName: ni.StudentName,
		Class:       ni.Class,
		Subjects:    ni.Subjects,
		Contact:     ni.Contact,
		Location:    ni.Location,
		CreatedAt:   core.Now(),
	})
	if err != nil {
		return Inquiry{}, errors.Wrap(err, "creating inquiry")
	}

	svc.notifier.Notify(NewInquiryNotification(inq))
	return inq, nil
}

// ListInquiries returns every inquiry, unfiltered, in store order.
func (svc *Service) ListInquiries(ctx context.Context) ([]Inquiry, error) {
	inqs, err := svc.repo.QueryAllInquiries(ctx)
	return inqs, errors.Wrap(err, "querying inquiries")
}

// SaveTeacherProfile inserts a new profile row on every call; earlier rows are kept as history.
func (svc *Service) SaveTeacherProfile(ctx context.Context, userID int, pf ProfileForm) (TeacherProfile, error) {
	if err := pf.Validate(svc.validate); err != nil {
		return TeacherProfile{}, err
	}

	prof, err := svc.repo.CreateTeacherProfile(ctx, TeacherProfile{
		UserID:        userID,
		Qualification: pf.Qualification,
		Experience:    pf.Experience,
		Subjects:      pf.Subjects,
		Location:      pf.Location,
		CreatedAt:     core.Now(),
	})
	if err != nil {
		return TeacherProfile{}, errors.Wrap(err, "creating teacher profile")
	}
	return prof, nil
}

// ListTeacherProfiles returns the profiles saved by userID, oldest first.
func (svc *Service) ListTeacherProfiles(ctx context.Context, userID int) ([]TeacherProfile, error) {
	profs, err := svc.repo.QueryTeacherProfiles(ctx, userID)
	return profs, errors.Wrap(err, "querying teacher profiles")
}

// NewInquiryNotification builds the admin alert for inq.
func NewInquiryNotification(inq Inquiry) core.Notification {
	body := new(strings.Builder)
	_, _ = fmt.Fprint(body, "New tuition inquiry received\n\n")
	_, _ = fmt.Fprintf(body, "Student: %s\n", inq.StudentName)
	_, _ = fmt.Fprintf(body, "Class: %s\n", inq.Class)
	_, _ = fmt.Fprintf(body, "Subjects: %s\n", strings.Join(inq.Subjects, ", "))
	_, _ = fmt.Fprintf(body, "Contact: %s\n", inq.Contact)
	_, _ = fmt.Fprintf(body, "Location: %s\n", inq.Location)
	return core.Notification{Subject: inquirySubject, Body: body.String()}
}
