package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/subject"
)

const subjectsTable = "subjects"

var subjectColumns = []string{"id", "name", "code", "description", "created_at", "updated_at"}

type subjectRow struct {
	ID          int         `db:"id"`
	Name        string      `db:"name"`
	Code        string      `db:"code"`
	Description null.String `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r subjectRow) unwrap() subject.Subject {
	return subject.Subject{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description.String,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type subjectRepository struct {
	store
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{store: newStore(db)}
}

func (repo subjectRepository) CheckSubjectUniqueness(ctx context.Context, code string, excludeID int) error {
	b := repo.sq.Select("code").From(subjectsTable).Where(sq.Eq{"code": code}).Where(sq.NotEq{"id": excludeID}).Limit(1)
	rows, err := selectRows[string](ctx, repo.store, b)
	if err != nil {
		return errors.Wrap(err, "checking subject uniqueness")
	}
	if len(rows) > 0 {
		return subject.ErrCodeExists
	}
	return nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, sbj subject.Subject) (subject.Subject, error) {
	b := repo.sq.Insert(subjectsTable).
		Columns("name", "code", "description", "created_at", "updated_at").
		Values(sbj.Name, sbj.Code, null.NewString(sbj.Description, sbj.Description != ""), sbj.CreatedAt.UTC(), sbj.UpdatedAt.UTC())
	id, err := insert(ctx, repo.store, b)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	sbj.ID = id
	return sbj, nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	b := repo.sq.Select(subjectColumns...).From(subjectsTable)
	if !filter.IsEmpty() {
		if filter.Search != "" {
			b = b.Where(search(filter.Search, "name", "code"))
		}
	}
	b = b.OrderBy(orderBy(ordering, core.DBOrdering{Field: "name", Ascending: true})...)

	rows, err := selectRows[subjectRow](ctx, repo.store, b)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.unwrap())
	}
	return subjects, nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, id int) (subject.Subject, error) {
	b := repo.sq.Select(subjectColumns...).From(subjectsTable).Where(sq.Eq{"id": id})
	row, err := getRow[subjectRow](ctx, repo.store, b, subject.ErrNotFound)
	if err != nil {
		if err == subject.ErrNotFound {
			return subject.Subject{}, err
		}
		return subject.Subject{}, errors.Wrap(err, "getting subject")
	}
	return row.unwrap(), nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, sbj subject.Subject) (subject.Subject, error) {
	b := repo.sq.Update(subjectsTable).SetMap(map[string]interface{}{
		"name":        sbj.Name,
		"code":        sbj.Code,
		"description": null.NewString(sbj.Description, sbj.Description != ""),
		"updated_at":  sbj.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": sbj.ID})
	if err := exec(ctx, repo.db, b, subject.ErrNotFound); err != nil {
		if err == subject.ErrNotFound {
			return subject.Subject{}, err
		}
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	return sbj, nil
}

func (repo subjectRepository) DeleteSubject(ctx context.Context, id int) error {
	refs := [][2]string{{teachersTable, "subject_id"}, {gradesTable, "subject_id"}}
	if err := deleteRestricted(ctx, repo.store, subjectsTable, id, refs, subject.ErrNotFound, subject.ErrInUse); err != nil {
		if err == subject.ErrNotFound || err == subject.ErrInUse {
			return err
		}
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}
