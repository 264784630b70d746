package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/teacher"
)

const teachersTable = "teachers"

var teacherColumns = []string{"id", "name", "email", "phone", "nip", "subject_id", "created_at", "updated_at"}

type teacherRow struct {
	ID        int         `db:"id"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	Phone     null.String `db:"phone"`
	NIP       string      `db:"nip"`
	SubjectID int         `db:"subject_id"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r teacherRow) unwrap() teacher.Teacher {
	return teacher.Teacher{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone.String,
		NIP:       r.NIP,
		SubjectID: r.SubjectID,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type teacherRepository struct {
	store
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{store: newStore(db)}
}

func (repo teacherRepository) CheckTeacherUniqueness(ctx context.Context, email, nip string, excludeID int) error {
	b := repo.sq.Select(teacherColumns...).From(teachersTable).
		Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"nip": nip}}).
		Where(sq.NotEq{"id": excludeID})
	rows, err := selectRows[teacherRow](ctx, repo.store, b)
	if err != nil {
		return errors.Wrap(err, "checking teacher uniqueness")
	}
	for _, r := range rows {
		if r.Email == email {
			return teacher.ErrEmailExists
		}
	}
	if len(rows) > 0 {
		return teacher.ErrNIPExists
	}
	return nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	b := repo.sq.Insert(teachersTable).
		Columns("name", "email", "phone", "nip", "subject_id", "created_at", "updated_at").
		Values(tch.Name, tch.Email, null.NewString(tch.Phone, tch.Phone != ""), tch.NIP, tch.SubjectID, tch.CreatedAt.UTC(), tch.UpdatedAt.UTC())
	id, err := insert(ctx, repo.store, b)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	tch.ID = id
	return tch, nil
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter *teacher.QueryFilter, ordering []core.DBOrdering) ([]teacher.Teacher, error) {
	b := repo.sq.Select(teacherColumns...).From(teachersTable)
	if !filter.IsEmpty() {
		if filter.Search != "" {
			b = b.Where(search(filter.Search, "name", "email", "nip"))
		}
		if filter.SubjectID != 0 {
			b = b.Where(sq.Eq{"subject_id": filter.SubjectID})
		}
	}
	b = b.OrderBy(orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})...)

	rows, err := selectRows[teacherRow](ctx, repo.store, b)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.unwrap())
	}
	return teachers, nil
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id int) (teacher.Teacher, error) {
	b := repo.sq.Select(teacherColumns...).From(teachersTable).Where(sq.Eq{"id": id})
	row, err := getRow[teacherRow](ctx, repo.store, b, teacher.ErrNotFound)
	if err != nil {
		if err == teacher.ErrNotFound {
			return teacher.Teacher{}, err
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return row.unwrap(), nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	b := repo.sq.Update(teachersTable).SetMap(map[string]interface{}{
		"name":       tch.Name,
		"email":      tch.Email,
		"phone":      null.NewString(tch.Phone, tch.Phone != ""),
		"nip":        tch.NIP,
		"subject_id": tch.SubjectID,
		"updated_at": tch.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": tch.ID})
	if err := exec(ctx, repo.db, b, teacher.ErrNotFound); err != nil {
		if err == teacher.ErrNotFound {
			return teacher.Teacher{}, err
		}
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return tch, nil
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id int) error {
	refs := [][2]string{{classesTable, "teacher_id"}, {gradesTable, "teacher_id"}}
	if err := deleteRestricted(ctx, repo.store, teachersTable, id, refs, teacher.ErrNotFound, teacher.ErrInUse); err != nil {
		if err == teacher.ErrNotFound || err == teacher.ErrInUse {
			return err
		}
		return errors.Wrap(err, "deleting teacher")
	}
	return nil
}
