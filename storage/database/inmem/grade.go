package inmemdb

import (
	"context"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/grade"
)

var gradeFields = map[string]comparator[grade.Grade]{
	"id":         compareBy(func(g grade.Grade) int { return g.ID }),
	"student_id": compareBy(func(g grade.Grade) int { return g.StudentID }),
	"subject_id": compareBy(func(g grade.Grade) int { return g.SubjectID }),
	"teacher_id": compareBy(func(g grade.Grade) int { return g.TeacherID }),
	"semester":   compareBy(func(g grade.Grade) string { return g.Semester }),
	"grade":      compareBy(func(g grade.Grade) float64 { return g.Grade }),
	"created_at": compareBy(func(g grade.Grade) int64 { return g.CreatedAt.UnixNano() }),
	"updated_at": compareBy(func(g grade.Grade) int64 { return g.UpdatedAt.UnixNano() }),
}

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(_ context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	grd.ID = repo.db.nextPK("grades")
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) QueryGrades(_ context.Context, qf *grade.QueryFilter, ordering []core.DBOrdering) ([]grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := rows(repo.db.grades)
	if !qf.IsEmpty() {
		res = filter(res, func(g grade.Grade) bool {
			if qf.StudentID != 0 && g.StudentID != qf.StudentID {
				return false
			}
			if qf.ClassID != 0 {
				std, ok := repo.db.students[g.StudentID]
				if !ok || std.ClassID != qf.ClassID {
					return false
				}
			}
			if qf.SubjectID != 0 && g.SubjectID != qf.SubjectID {
				return false
			}
			if qf.TeacherID != 0 && g.TeacherID != qf.TeacherID {
				return false
			}
			return qf.Semester == "" || g.Semester == qf.Semester
		})
	}
	// newest first; ties broken by the higher id
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}, {Field: "id"}}
	}
	order(res, ordering, gradeFields)
	return res, nil
}

func (repo *gradeRepository) GetGrade(_ context.Context, id int) (grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if grd, ok := repo.db.grades[id]; ok {
		return *grd, nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) UpdateGrade(_ context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.grades[grd.ID]; !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) DeleteGrade(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.grades[id]; !ok {
		return grade.ErrNotFound
	}
	delete(repo.db.grades, id)
	return nil
}
