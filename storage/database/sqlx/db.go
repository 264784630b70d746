package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
)

// store holds what every repository needs to build & run queries against either PostgreSQL or SQLite.
type store struct {
	db *sqlx.DB
	sq sq.StatementBuilderType
}

func newStore(db *sqlx.DB) store {
	var ph sq.PlaceholderFormat = sq.Question
	if db.DriverName() == "postgres" {
		ph = sq.Dollar
	}
	return store{db: db, sq: sq.StatementBuilder.PlaceholderFormat(ph)}
}

// search matches q case-insensitively anywhere in one of cols.
func search(q string, cols ...string) sq.Sqlizer {
	val := "%" + q + "%"
	or := make(sq.Or, 0, len(cols))
	for _, col := range cols {
		or = append(or, sq.Expr("LOWER("+col+") LIKE LOWER(?)", val))
	}
	return or
}

// orderBy renders ordering (or defaults if empty), always ending with the primary key.
func orderBy(ordering []core.DBOrdering, defaults ...core.DBOrdering) []string {
	if len(ordering) == 0 {
		ordering = defaults
	}
	orderList := make([]string, 0, len(ordering)+1)
	var hasID bool
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
		hasID = hasID || ord.Field == "id"
	}
	if !hasID {
		orderList = append(orderList, "id ASC")
	}
	return orderList
}

func selectRows[T any](ctx context.Context, s store, b sq.SelectBuilder) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	rows := make([]T, 0)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// getRow returns notFound when no row matches.
func getRow[T any](ctx context.Context, s store, b sq.SelectBuilder, notFound error) (T, error) {
	var row T
	query, args, err := b.ToSql()
	if err != nil {
		return row, errors.Wrap(err, "building query")
	}
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return row, notFound
		}
		return row, err
	}
	return row, nil
}

// insert runs b and returns the id of the inserted row.
func insert(ctx context.Context, s store, b sq.InsertBuilder) (int, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	var id int
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// exec runs b and returns notFound when no row was affected.
func exec(ctx context.Context, e sqlx.ExecerContext, b sq.Sqlizer, notFound error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// referenced reports whether any row of table has col = id.
func referenced(ctx context.Context, s store, q sqlx.QueryerContext, table, col string, id int) (bool, error) {
	query, args, err := s.sq.Select("1").From(table).Where(sq.Eq{col: id}).Limit(1).ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building query")
	}
	var one int
	if err := sqlx.GetContext(ctx, q, &one, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// deleteRestricted deletes the row id of table, unless one of refs (table -> column) references it.
func deleteRestricted(ctx context.Context, s store, table string, id int, refs [][2]string, notFound, inUse error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, ref := range refs {
		used, err := referenced(ctx, s, tx, ref[0], ref[1], id)
		if err != nil {
			return errors.Wrapf(err, "checking %s references", ref[0])
		}
		if used {
			return inUse
		}
	}
	if err = exec(ctx, tx, s.sq.Delete(table).Where(sq.Eq{"id": id}), notFound); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
