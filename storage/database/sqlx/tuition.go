package sqlxrepos

import (
	"context"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/tuition"
)

const (
	inquiryColumns = `id, student_name, class, subjects, contact, location, created_at`
	teacherColumns = `id, user_id, qualification, experience, subjects, location, created_at`
)

type tuitionRepository struct {
	db core.DBExecutor
}

var _ tuition.Repository = (*tuitionRepository)(nil)

func NewTuitionRepository(db core.DBExecutor) tuition.Repository {
	return &tuitionRepository{db: db}
}

func (repo *tuitionRepository) CreateInquiry(ctx context.Context, inq tuition.Inquiry) (tuition.Inquiry, error) {
	q := `INSERT INTO inquiries (student_name, class, subjects, contact, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q, inq.StudentName, inq.Class, inq.Subjects, inq.Contact, inq.Location, inq.CreatedAt).
		Scan(&inq.ID)
	if err != nil {
		return tuition.Inquiry{}, wrapErr(err, "inserting inquiry")
	}
	return inq, nil
}

func (repo *tuitionRepository) QueryAllInquiries(ctx context.Context) ([]tuition.Inquiry, error) {
	inqs := make([]tuition.Inquiry, 0)
	if err := repo.db.SelectContext(ctx, &inqs, `SELECT `+inquiryColumns+` FROM inquiries ORDER BY id`); err != nil {
		return nil, wrapErr(err, "selecting inquiries")
	}
	return inqs, nil
}

func (repo *tuitionRepository) CreateTeacherProfile(ctx context.Context, prof tuition.TeacherProfile) (tuition.TeacherProfile, error) {
	q := `INSERT INTO teachers (user_id, qualification, experience, subjects, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q, prof.UserID, prof.Qualification, prof.Experience, prof.Subjects, prof.Location, prof.CreatedAt).
		Scan(&prof.ID)
	if err != nil {
		return tuition.TeacherProfile{}, wrapErr(err, "inserting teacher profile")
	}
	return prof, nil
}

func (repo *tuitionRepository) QueryTeacherProfiles(ctx context.Context, userID int) ([]tuition.TeacherProfile, error) {
	profs := make([]tuition.TeacherProfile, 0)
	q := `SELECT ` + teacherColumns + ` FROM teachers WHERE user_id = $1 ORDER BY id`
	if err := repo.db.SelectContext(ctx, &profs, q, userID); err != nil {
		return nil, wrapErr(err, "selecting teacher profiles")
	}
	return profs, nil
}
