package inmemdb

import (
	"context"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/teacher"
)

var teacherFields = map[string]comparator[teacher.Teacher]{
	"id":         compareBy(func(t teacher.Teacher) int { return t.ID }),
	"name":       compareBy(func(t teacher.Teacher) string { return t.Name }),
	"email":      compareBy(func(t teacher.Teacher) string { return t.Email }),
	"nip":        compareBy(func(t teacher.Teacher) string { return t.NIP }),
	"subject_id": compareBy(func(t teacher.Teacher) int { return t.SubjectID }),
	"created_at": compareBy(func(t teacher.Teacher) int64 { return t.CreatedAt.UnixNano() }),
	"updated_at": compareBy(func(t teacher.Teacher) int64 { return t.UpdatedAt.UnixNano() }),
}

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CheckTeacherUniqueness(_ context.Context, email, nip string, excludeID int) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.ID == excludeID {
			continue
		}
		if tch.Email == email {
			return teacher.ErrEmailExists
		}
		if tch.NIP == nip {
			return teacher.ErrNIPExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tch.ID = repo.db.nextPK("teachers")
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) QueryTeachers(_ context.Context, qf *teacher.QueryFilter, ordering []core.DBOrdering) ([]teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := rows(repo.db.teachers)
	if !qf.IsEmpty() {
		res = filter(res, func(t teacher.Teacher) bool {
			if qf.SubjectID != 0 && t.SubjectID != qf.SubjectID {
				return false
			}
			return qf.Search == "" || contains(t.Name, qf.Search) || contains(t.Email, qf.Search) || contains(t.NIP, qf.Search)
		})
	}
	order(res, ordering, teacherFields, core.DBOrdering{Field: "name", Ascending: true})
	return res, nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, id int) (teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[tch.ID]; !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) DeleteTeacher(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return teacher.ErrNotFound
	}
	for _, cls := range repo.db.classes {
		if cls.TeacherID == id {
			return teacher.ErrInUse
		}
	}
	for _, grd := range repo.db.grades {
		if grd.TeacherID == id {
			return teacher.ErrInUse
		}
	}
	delete(repo.db.teachers, id)
	return nil
}
