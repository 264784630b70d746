package inmemdb

import (
	"context"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/student"
)

var studentFields = map[string]comparator[student.Student]{
	"id":             compareBy(func(s student.Student) int { return s.ID }),
	"name":           compareBy(func(s student.Student) string { return s.Name }),
	"email":          compareBy(func(s student.Student) string { return s.Email }),
	"student_number": compareBy(func(s student.Student) string { return s.StudentNumber }),
	"class_id":       compareBy(func(s student.Student) int { return s.ClassID }),
	"birth_date":     compareBy(func(s student.Student) int64 { return s.BirthDate.UnixNano() }),
	"created_at":     compareBy(func(s student.Student) int64 { return s.CreatedAt.UnixNano() }),
	"updated_at":     compareBy(func(s student.Student) int64 { return s.UpdatedAt.UnixNano() }),
}

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckStudentUniqueness(_ context.Context, email, studentNumber string, excludeID int) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, std := range repo.db.students {
		if std.ID == excludeID {
			continue
		}
		if std.Email == email {
			return student.ErrEmailExists
		}
		if std.StudentNumber == studentNumber {
			return student.ErrStudentNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = repo.db.nextPK("students")
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, qf *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := rows(repo.db.students)
	if !qf.IsEmpty() {
		res = filter(res, func(s student.Student) bool {
			if qf.ClassID != 0 && s.ClassID != qf.ClassID {
				return false
			}
			return qf.Search == "" || contains(s.Name, qf.Search) || contains(s.Email, qf.Search) || contains(s.StudentNumber, qf.Search)
		})
	}
	order(res, ordering, studentFields, core.DBOrdering{Field: "name", Ascending: true})
	return res, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id int) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	for gid, grd := range repo.db.grades {
		if grd.StudentID == id {
			delete(repo.db.grades, gid)
		}
	}
	delete(repo.db.students, id)
	return nil
}
