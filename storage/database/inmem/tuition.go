package inmemdb

import (
	"context"

	"github.com/hometuition/portal/core/tuition"
)

type tuitionRepository struct {
	db *tuitionTables
}

var _ tuition.Repository = (*tuitionRepository)(nil)

func NewTuitionRepository(db *DB) tuition.Repository {
	return &tuitionRepository{db: db.tuition}
}

func (repo *tuitionRepository) CreateInquiry(_ context.Context, inq tuition.Inquiry) (tuition.Inquiry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.inqPK++
	inq.ID = repo.db.inqPK
	inq.Subjects = append(tuition.Subjects{}, inq.Subjects...)
	repo.db.inquiries = append(repo.db.inquiries, inq)
	return inq, nil
}

func (repo *tuitionRepository) QueryAllInquiries(context.Context) ([]tuition.Inquiry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	inqs := make([]tuition.Inquiry, len(repo.db.inquiries))
	copy(inqs, repo.db.inquiries)
	return inqs, nil
}

func (repo *tuitionRepository) CreateTeacherProfile(_ context.Context, prof tuition.TeacherProfile) (tuition.TeacherProfile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.profPK++
	prof.ID = repo.db.profPK
	prof.Subjects = append(tuition.Subjects{}, prof.Subjects...)
	repo.db.profiles = append(repo.db.profiles, prof)
	return prof, nil
}

func (repo *tuitionRepository) QueryTeacherProfiles(_ context.Context, userID int) ([]tuition.TeacherProfile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	profs := make([]tuition.TeacherProfile, 0)
	for _, p := range repo.db.profiles {
		if p.UserID == userID {
			profs = append(profs, p)
		}
	}
	return profs, nil
}
