package tuition

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

// form choices
var (
	Classes         = classes()
	InquirySubjects = []string{"Maths", "Science", "English", "Hindi"}
	TeacherSubjects = []string{"Maths", "Science", "English", "Physics", "Chemistry"}

	MinExperience = 0
	MaxExperience = 30
)

func classes() []string {
	cls := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		cls = append(cls, ordinal(i))
	}
	return cls
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Subjects is an ordered list of subjects, stored as a single comma-joined column.
type Subjects []string

const subjectsSep = ","

func (s Subjects) String() string {
	return strings.Join(s, subjectsSep)
}

// Value implements driver.Valuer.
func (s Subjects) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Subjects) Scan(src interface{}) error {
	var str string
	switch v := src.(type) {
	case nil:
		*s = Subjects{}
		return nil
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return errors.Errorf("cannot scan %T into Subjects", src)
	}
	*s = ParseSubjects(str)
	return nil
}

// ParseSubjects splits a comma-joined subjects column.
func ParseSubjects(str string) Subjects {
	if strings.TrimSpace(str) == "" {
		return Subjects{}
	}
	parts := strings.Split(str, subjectsSep)
	subjects := make(Subjects, 0, len(parts))
	for _, p := range parts {
		subjects = append(subjects, strings.TrimSpace(p))
	}
	return subjects
}

func (s Subjects) clean() Subjects {
	if s == nil {
		return nil
	}
	cleaned := make(Subjects, 0, len(s))
	for _, sub := range s {
		cleaned = append(cleaned, core.CleanString(sub))
	}
	return cleaned
}

type Inquiry struct {
	ID          int       `db:"id" json:"id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Class       string    `db:"class" json:"class"`
	Subjects    Subjects  `db:"subjects" json:"subjects"`
	Contact     string    `db:"contact" json:"contact"`
	Location    string    `db:"location" json:"location"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"` // UTC
}

// NewInquiry is the parent's inquiry form.
type NewInquiry struct {
	StudentName string   `json:"student_name" validate:"required"`
	Class       string   `json:"class" validate:"required,schoolclass"`
	Subjects    Subjects `json:"subjects" validate:"required,min=1,dive,inquirysubject"`
	Contact     string   `json:"contact" validate:"required"`
	Location    string   `json:"location" validate:"required"`
}

func (ni *NewInquiry) Validate(validate *validator.Validate) error {
	ni.StudentName = core.CleanString(ni.StudentName)
	ni.Class = core.CleanString(ni.Class)
	ni.Subjects = ni.Subjects.clean()
	ni.Contact = core.CleanString(ni.Contact)
	ni.Location = core.CleanString(ni.Location)
	return validate.Struct(ni)
}

type TeacherProfile struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	Qualification string    `db:"qualification" json:"qualification"`
	Experience    int       `db:"experience" json:"experience"`
	Subjects      Subjects  `db:"subjects" json:"subjects"`
	Location      string    `db:"location" json:"location"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"` // UTC
}

// ProfileForm is the teacher's profile form.
type ProfileForm struct {
	Qualification string   `json:"qualification" validate:"required"`
	Experience    int      `json:"experience" validate:"min=0,max=30"`
	Subjects      Subjects `json:"subjects" validate:"required,min=1,dive,teachersubject"`
	Location      string   `json:"location" validate:"required"`
}

func (pf *ProfileForm) Validate(validate *validator.Validate) error {
	pf.Qualification = core.CleanString(pf.Qualification)
	pf.Subjects = pf.Subjects.clean()
	pf.Location = core.CleanString(pf.Location)
	return validate.Struct(pf)
}

// FormOptions lists the choices a form accepts.
type FormOptions struct {
	Classes       []string `json:"classes,omitempty"`
	Subjects      []string `json:"subjects"`
	MinExperience *int     `json:"min_experience,omitempty"`
	MaxExperience *int     `json:"max_experience,omitempty"`
}

func InquiryFormOptions() FormOptions {
	return FormOptions{Classes: Classes, Subjects: InquirySubjects}
}

func ProfileFormOptions() FormOptions {
	return FormOptions{Subjects: TeacherSubjects, MinExperience: &MinExperience, MaxExperience: &MaxExperience}
}
