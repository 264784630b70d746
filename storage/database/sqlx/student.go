package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/student"
)

const studentsTable = "students"

var studentColumns = []string{"id", "name", "email", "phone", "student_number", "class_id", "birth_date", "address", "created_at", "updated_at"}

type studentRow struct {
	ID            int         `db:"id"`
	Name          string      `db:"name"`
	Email         string      `db:"email"`
	Phone         null.String `db:"phone"`
	StudentNumber string      `db:"student_number"`
	ClassID       int         `db:"class_id"`
	BirthDate     time.Time   `db:"birth_date"`
	Address       null.String `db:"address"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (r studentRow) unwrap() student.Student {
	return student.Student{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone.String,
		StudentNumber: r.StudentNumber,
		ClassID:       r.ClassID,
		BirthDate:     r.BirthDate.UTC(),
		Address:       r.Address.String,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type studentRepository struct {
	store
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{store: newStore(db)}
}

func (repo studentRepository) CheckStudentUniqueness(ctx context.Context, email, studentNumber string, excludeID int) error {
	b := repo.sq.Select(studentColumns...).From(studentsTable).
		Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"student_number": studentNumber}}).
		Where(sq.NotEq{"id": excludeID})
	rows, err := selectRows[studentRow](ctx, repo.store, b)
	if err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	for _, r := range rows {
		if r.Email == email {
			return student.ErrEmailExists
		}
	}
	if len(rows) > 0 {
		return student.ErrStudentNumberExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	b := repo.sq.Insert(studentsTable).
		Columns("name", "email", "phone", "student_number", "class_id", "birth_date", "address", "created_at", "updated_at").
		Values(
			std.Name,
			std.Email,
			null.NewString(std.Phone, std.Phone != ""),
			std.StudentNumber,
			std.ClassID,
			std.BirthDate.UTC(),
			null.NewString(std.Address, std.Address != ""),
			std.CreatedAt.UTC(),
			std.UpdatedAt.UTC(),
		)
	id, err := insert(ctx, repo.store, b)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	std.ID = id
	return std, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	b := repo.sq.Select(studentColumns...).From(studentsTable)
	if !filter.IsEmpty() {
		if filter.Search != "" {
			b = b.Where(search(filter.Search, "name", "email", "student_number"))
		}
		if filter.ClassID != 0 {
			b = b.Where(sq.Eq{"class_id": filter.ClassID})
		}
	}
	b = b.OrderBy(orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})...)

	rows, err := selectRows[studentRow](ctx, repo.store, b)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unwrap())
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	b := repo.sq.Select(studentColumns...).From(studentsTable).Where(sq.Eq{"id": id})
	row, err := getRow[studentRow](ctx, repo.store, b, student.ErrNotFound)
	if err != nil {
		if err == student.ErrNotFound {
			return student.Student{}, err
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.unwrap(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	b := repo.sq.Update(studentsTable).SetMap(map[string]interface{}{
		"name":           std.Name,
		"email":          std.Email,
		"phone":          null.NewString(std.Phone, std.Phone != ""),
		"student_number": std.StudentNumber,
		"class_id":       std.ClassID,
		"birth_date":     std.BirthDate.UTC(),
		"address":        null.NewString(std.Address, std.Address != ""),
		"updated_at":     std.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": std.ID})
	if err := exec(ctx, repo.db, b, student.ErrNotFound); err != nil {
		if err == student.ErrNotFound {
			return student.Student{}, err
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

// DeleteStudent deletes the student's grades then the student in a single transaction.
func (repo studentRepository) DeleteStudent(ctx context.Context, id int) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := repo.sq.Delete(gradesTable).Where(sq.Eq{"student_id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting student grades")
	}
	if err = exec(ctx, tx, repo.sq.Delete(studentsTable).Where(sq.Eq{"id": id}), student.ErrNotFound); err != nil {
		if err == student.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "deleting student")
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
