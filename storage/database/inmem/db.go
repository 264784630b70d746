package inmemdb

import (
	"cmp"
	"sort"
	"strings"
	"sync"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
)

// DB is an in-memory store. A single lock guards all tables so that reference checks
// and cascades see a consistent state.
type DB struct {
	mutex sync.RWMutex

	subjects map[int]*subject.Subject
	teachers map[int]*teacher.Teacher
	classes  map[int]*classroom.ClassRoom
	students map[int]*student.Student
	grades   map[int]*grade.Grade

	pkCount map[string]int
}

func Open() (*DB, error) {
	db := &DB{
		subjects: make(map[int]*subject.Subject),
		teachers: make(map[int]*teacher.Teacher),
		classes:  make(map[int]*classroom.ClassRoom),
		students: make(map[int]*student.Student),
		grades:   make(map[int]*grade.Grade),
		pkCount:  make(map[string]int),
	}
	return db, nil
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK(table string) int {
	db.pkCount[table]++
	return db.pkCount[table]
}

func rows[T any](table map[int]*T) []T {
	res := make([]T, 0, len(table))
	for _, r := range table {
		res = append(res, *r)
	}
	return res
}

func filter[T any](items []T, keep func(T) bool) []T {
	res := items[:0]
	for _, item := range items {
		if keep(item) {
			res = append(res, item)
		}
	}
	return res
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type comparator[T any] func(a, b T) int

func compareBy[T any, V cmp.Ordered](field func(T) V) comparator[T] {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// order sorts items by ordering (or defaults if empty), then by id ascending.
// Fields missing from fields are ignored.
func order[T any](items []T, ordering []core.DBOrdering, fields map[string]comparator[T], defaults ...core.DBOrdering) {
	if len(ordering) == 0 {
		ordering = defaults
	}
	ordering = append(ordering[:len(ordering):len(ordering)], core.DBOrdering{Field: "id", Ascending: true})

	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range ordering {
			compare, ok := fields[ord.Field]
			if !ok {
				continue
			}
			if c := compare(items[i], items[j]); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return false
	})
}
