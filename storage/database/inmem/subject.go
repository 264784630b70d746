package inmemdb

import (
	"context"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/subject"
)

var subjectFields = map[string]comparator[subject.Subject]{
	"id":         compareBy(func(s subject.Subject) int { return s.ID }),
	"name":       compareBy(func(s subject.Subject) string { return s.Name }),
	"code":       compareBy(func(s subject.Subject) string { return s.Code }),
	"created_at": compareBy(func(s subject.Subject) int64 { return s.CreatedAt.UnixNano() }),
	"updated_at": compareBy(func(s subject.Subject) int64 { return s.UpdatedAt.UnixNano() }),
}

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CheckSubjectUniqueness(_ context.Context, code string, excludeID int) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sbj := range repo.db.subjects {
		if sbj.ID != excludeID && sbj.Code == code {
			return subject.ErrCodeExists
		}
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sbj subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sbj.ID = repo.db.nextPK("subjects")
	repo.db.subjects[sbj.ID] = &sbj
	return sbj, nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, qf *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := rows(repo.db.subjects)
	if !qf.IsEmpty() {
		res = filter(res, func(s subject.Subject) bool {
			return qf.Search == "" || contains(s.Name, qf.Search) || contains(s.Code, qf.Search)
		})
	}
	order(res, ordering, subjectFields, core.DBOrdering{Field: "name", Ascending: true})
	return res, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, id int) (subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sbj, ok := repo.db.subjects[id]; ok {
		return *sbj, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sbj subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[sbj.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.subjects[sbj.ID] = &sbj
	return sbj, nil
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return subject.ErrNotFound
	}
	for _, tch := range repo.db.teachers {
		if tch.SubjectID == id {
			return subject.ErrInUse
		}
	}
	for _, grd := range repo.db.grades {
		if grd.SubjectID == id {
			return subject.ErrInUse
		}
	}
	delete(repo.db.subjects, id)
	return nil
}
