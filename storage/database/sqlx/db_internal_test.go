package sqlxrepos

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_newStore_placeholders(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{driver: "postgres", want: "SELECT id FROM subjects WHERE code = $1 AND id <> $2"},
		{driver: "sqlite3", want: "SELECT id FROM subjects WHERE code = ? AND id <> ?"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := newStore(sqlx.NewDb(nil, tt.driver))
			query, args, err := s.sq.Select("id").From("subjects").
				Where(sq.Eq{"code": "MTK"}).Where(sq.NotEq{"id": 1}).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []interface{}{"MTK", 1}, args)
		})
	}
}
