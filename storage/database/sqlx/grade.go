package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/grade"
)

const gradesTable = "grades"

var gradeColumns = []string{"id", "student_id", "subject_id", "teacher_id", "semester", "grade", "notes", "created_at", "updated_at"}

type gradeRow struct {
	ID        int         `db:"id"`
	StudentID int         `db:"student_id"`
	SubjectID int         `db:"subject_id"`
	TeacherID int         `db:"teacher_id"`
	Semester  string      `db:"semester"`
	Grade     float64     `db:"grade"`
	Notes     null.String `db:"notes"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r gradeRow) unwrap() grade.Grade {
	return grade.Grade{
		ID:        r.ID,
		StudentID: r.StudentID,
		SubjectID: r.SubjectID,
		TeacherID: r.TeacherID,
		Semester:  r.Semester,
		Grade:     r.Grade,
		Notes:     r.Notes.String,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type gradeRepository struct {
	store
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{store: newStore(db)}
}

func (repo gradeRepository) CreateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	b := repo.sq.Insert(gradesTable).
		Columns("student_id", "subject_id", "teacher_id", "semester", "grade", "notes", "created_at", "updated_at").
		Values(
			grd.StudentID,
			grd.SubjectID,
			grd.TeacherID,
			grd.Semester,
			grd.Grade,
			null.NewString(grd.Notes, grd.Notes != ""),
			grd.CreatedAt.UTC(),
			grd.UpdatedAt.UTC(),
		)
	id, err := insert(ctx, repo.store, b)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	grd.ID = id
	return grd, nil
}

func (repo gradeRepository) QueryGrades(ctx context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering) ([]grade.Grade, error) {
	b := repo.sq.Select(gradeColumns...).From(gradesTable)
	if !filter.IsEmpty() {
		if filter.StudentID != 0 {
			b = b.Where(sq.Eq{"student_id": filter.StudentID})
		}
		if filter.ClassID != 0 {
			// placeholders are rewritten once, by the outer query
			query, args, err := sq.Select("id").From(studentsTable).Where(sq.Eq{"class_id": filter.ClassID}).ToSql()
			if err != nil {
				return nil, errors.Wrap(err, "building query")
			}
			b = b.Where(sq.Expr("student_id IN ("+query+")", args...))
		}
		if filter.SubjectID != 0 {
			b = b.Where(sq.Eq{"subject_id": filter.SubjectID})
		}
		if filter.TeacherID != 0 {
			b = b.Where(sq.Eq{"teacher_id": filter.TeacherID})
		}
		if filter.Semester != "" {
			b = b.Where(sq.Eq{"semester": filter.Semester})
		}
	}
	// newest first; ties broken by the higher id
	b = b.OrderBy(orderBy(ordering, core.DBOrdering{Field: "created_at"}, core.DBOrdering{Field: "id"})...)

	rows, err := selectRows[gradeRow](ctx, repo.store, b)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.unwrap())
	}
	return grades, nil
}

func (repo gradeRepository) GetGrade(ctx context.Context, id int) (grade.Grade, error) {
	b := repo.sq.Select(gradeColumns...).From(gradesTable).Where(sq.Eq{"id": id})
	row, err := getRow[gradeRow](ctx, repo.store, b, grade.ErrNotFound)
	if err != nil {
		if err == grade.ErrNotFound {
			return grade.Grade{}, err
		}
		return grade.Grade{}, errors.Wrap(err, "getting grade")
	}
	return row.unwrap(), nil
}

func (repo gradeRepository) UpdateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	b := repo.sq.Update(gradesTable).SetMap(map[string]interface{}{
		"student_id": grd.StudentID,
		"subject_id": grd.SubjectID,
		"teacher_id": grd.TeacherID,
		"semester":   grd.Semester,
		"grade":      grd.Grade,
		"notes":      null.NewString(grd.Notes, grd.Notes != ""),
		"updated_at": grd.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": grd.ID})
	if err := exec(ctx, repo.db, b, grade.ErrNotFound); err != nil {
		if err == grade.ErrNotFound {
			return grade.Grade{}, err
		}
		return grade.Grade{}, errors.Wrap(err, "updating grade")
	}
	return grd, nil
}

func (repo gradeRepository) DeleteGrade(ctx context.Context, id int) error {
	if err := exec(ctx, repo.db, repo.sq.Delete(gradesTable).Where(sq.Eq{"id": id}), grade.ErrNotFound); err != nil {
		if err == grade.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "deleting grade")
	}
	return nil
}
