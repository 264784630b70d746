package inmemdb

import (
	"context"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
)

var classFields = map[string]comparator[classroom.ClassRoom]{
	"id":          compareBy(func(c classroom.ClassRoom) int { return c.ID }),
	"name":        compareBy(func(c classroom.ClassRoom) string { return c.Name }),
	"grade_level": compareBy(func(c classroom.ClassRoom) string { return c.GradeLevel }),
	"teacher_id":  compareBy(func(c classroom.ClassRoom) int { return c.TeacherID }),
	"capacity":    compareBy(func(c classroom.ClassRoom) int { return c.Capacity }),
	"created_at":  compareBy(func(c classroom.ClassRoom) int64 { return c.CreatedAt.UnixNano() }),
	"updated_at":  compareBy(func(c classroom.ClassRoom) int64 { return c.UpdatedAt.UnixNano() }),
}

type classRoomRepository struct {
	db *DB
}

var _ classroom.Repository = (*classRoomRepository)(nil)

func NewClassRoomRepository(db *DB) classroom.Repository {
	return &classRoomRepository{db: db}
}

func (repo *classRoomRepository) CreateClassRoom(_ context.Context, cls classroom.ClassRoom) (classroom.ClassRoom, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cls.ID = repo.db.nextPK("classes")
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *classRoomRepository) QueryClassRooms(_ context.Context, qf *classroom.QueryFilter, ordering []core.DBOrdering) ([]classroom.ClassRoom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := rows(repo.db.classes)
	if !qf.IsEmpty() {
		res = filter(res, func(c classroom.ClassRoom) bool {
			if qf.GradeLevel != "" && c.GradeLevel != qf.GradeLevel {
				return false
			}
			if qf.TeacherID != 0 && c.TeacherID != qf.TeacherID {
				return false
			}
			return qf.Search == "" || contains(c.Name, qf.Search)
		})
	}
	order(res, ordering, classFields,
		core.DBOrdering{Field: "grade_level", Ascending: true},
		core.DBOrdering{Field: "name", Ascending: true},
	)
	return res, nil
}

func (repo *classRoomRepository) GetClassRoom(_ context.Context, id int) (classroom.ClassRoom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return classroom.ClassRoom{}, classroom.ErrNotFound
}

func (repo *classRoomRepository) UpdateClassRoom(_ context.Context, cls classroom.ClassRoom) (classroom.ClassRoom, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[cls.ID]; !ok {
		return classroom.ClassRoom{}, classroom.ErrNotFound
	}
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *classRoomRepository) DeleteClassRoom(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return classroom.ErrNotFound
	}
	for _, std := range repo.db.students {
		if std.ClassID == id {
			return classroom.ErrInUse
		}
	}
	delete(repo.db.classes, id)
	return nil
}
