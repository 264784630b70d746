package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
)

const classesTable = "classes"

var classColumns = []string{"id", "name", "grade_level", "teacher_id", "capacity", "created_at", "updated_at"}

type classRow struct {
	ID         int       `db:"id"`
	Name       string    `db:"name"`
	GradeLevel string    `db:"grade_level"`
	TeacherID  int       `db:"teacher_id"`
	Capacity   int       `db:"capacity"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r classRow) unwrap() classroom.ClassRoom {
	return classroom.ClassRoom{
		ID:         r.ID,
		Name:       r.Name,
		GradeLevel: r.GradeLevel,
		TeacherID:  r.TeacherID,
		Capacity:   r.Capacity,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

type classRoomRepository struct {
	store
}

var _ classroom.Repository = (*classRoomRepository)(nil) // interface compliance check

func NewClassRoomRepository(db *sqlx.DB) classroom.Repository {
	return &classRoomRepository{store: newStore(db)}
}

func (repo classRoomRepository) CreateClassRoom(ctx context.Context, cls classroom.ClassRoom) (classroom.ClassRoom, error) {
	b := repo.sq.Insert(classesTable).
		Columns("name", "grade_level", "teacher_id", "capacity", "created_at", "updated_at").
		Values(cls.Name, cls.GradeLevel, cls.TeacherID, cls.Capacity, cls.CreatedAt.UTC(), cls.UpdatedAt.UTC())
	id, err := insert(ctx, repo.store, b)
	if err != nil {
		return classroom.ClassRoom{}, errors.Wrap(err, "inserting class")
	}
	cls.ID = id
	return cls, nil
}

func (repo classRoomRepository) QueryClassRooms(ctx context.Context, filter *classroom.QueryFilter, ordering []core.DBOrdering) ([]classroom.ClassRoom, error) {
	b := repo.sq.Select(classColumns...).From(classesTable)
	if !filter.IsEmpty() {
		if filter.Search != "" {
			b = b.Where(search(filter.Search, "name"))
		}
		if filter.GradeLevel != "" {
			b = b.Where(sq.Eq{"grade_level": filter.GradeLevel})
		}
		if filter.TeacherID != 0 {
			b = b.Where(sq.Eq{"teacher_id": filter.TeacherID})
		}
	}
	b = b.OrderBy(orderBy(ordering,
		core.DBOrdering{Field: "grade_level", Ascending: true},
		core.DBOrdering{Field: "name", Ascending: true},
	)...)

	rows, err := selectRows[classRow](ctx, repo.store, b)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]classroom.ClassRoom, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.unwrap())
	}
	return classes, nil
}

func (repo classRoomRepository) GetClassRoom(ctx context.Context, id int) (classroom.ClassRoom, error) {
	b := repo.sq.Select(classColumns...).From(classesTable).Where(sq.Eq{"id": id})
	row, err := getRow[classRow](ctx, repo.store, b, classroom.ErrNotFound)
	if err != nil {
		if err == classroom.ErrNotFound {
			return classroom.ClassRoom{}, err
		}
		return classroom.ClassRoom{}, errors.Wrap(err, "getting class")
	}
	return row.unwrap(), nil
}

func (repo classRoomRepository) UpdateClassRoom(ctx context.Context, cls classroom.ClassRoom) (classroom.ClassRoom, error) {
	b := repo.sq.Update(classesTable).SetMap(map[string]interface{}{
		"name":        cls.Name,
		"grade_level": cls.GradeLevel,
		"teacher_id":  cls.TeacherID,
		"capacity":    cls.Capacity,
		"updated_at":  cls.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": cls.ID})
	if err := exec(ctx, repo.db, b, classroom.ErrNotFound); err != nil {
		if err == classroom.ErrNotFound {
			return classroom.ClassRoom{}, err
		}
		return classroom.ClassRoom{}, errors.Wrap(err, "updating class")
	}
	return cls, nil
}

func (repo classRoomRepository) DeleteClassRoom(ctx context.Context, id int) error {
	refs := [][2]string{{studentsTable, "class_id"}}
	if err := deleteRestricted(ctx, repo.store, classesTable, id, refs, classroom.ErrNotFound, classroom.ErrInUse); err != nil {
		if err == classroom.ErrNotFound || err == classroom.ErrInUse {
			return err
		}
		return errors.Wrap(err, "deleting class")
	}
	return nil
}
