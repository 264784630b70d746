package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rapor/core/grade"
)

func TestAggregate(t *testing.T) {
	now := time.Now().UTC()
	grades := []grade.Grade{
		{ID: 1, StudentID: 1, SubjectID: 1, Grade: 80, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, StudentID: 1, SubjectID: 2, Grade: 90, CreatedAt: now},
		{ID: 3, StudentID: 1, SubjectID: 1, Grade: 70, CreatedAt: now.Add(-time.Hour)},
		{ID: 4, StudentID: 2, SubjectID: 1, Grade: 60, CreatedAt: now},
		{ID: 5, StudentID: 2, SubjectID: 1, Grade: 100, CreatedAt: now}, // same time, higher ID
	}

	stats := Aggregate(grades, byStudent, bySubject)
	if assert.Len(t, stats, 2) {
		assert.Equal(t, 3, stats[1].Count)
		assert.Equal(t, 240.0, stats[1].Sum)
		assert.Equal(t, 80.0, stats[1].Average())
		assert.Equal(t, 2, stats[1].Distinct())
		assert.Equal(t, 2, stats[1].Latest.ID)

		assert.Equal(t, 80.0, stats[2].Average())
		assert.Equal(t, 1, stats[2].Distinct())
		assert.Equal(t, 5, stats[2].Latest.ID)
	}

	var missing *Stats = stats[42]
	assert.Zero(t, missing.Average())
	assert.Zero(t, missing.Distinct())
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil, byStudent))
	assert.Zero(t, Mean(nil))

	grades := []grade.Grade{
		{ID: 1, StudentID: 1, TeacherID: 1, Grade: 85},
		{ID: 2, StudentID: 2, TeacherID: 1, Grade: 90},
		{ID: 3, StudentID: 1, TeacherID: 2, Grade: 95},
	}
	st := Summarize(grades, byStudent)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 2, st.Distinct())
	assert.Equal(t, 90.0, st.Average())
	assert.Equal(t, 90.0, Mean(grades))
}

func TestCountBy(t *testing.T) {
	counts := CountBy([]string{"a", "b", "a"}, func(s string) string { return s })
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name               string
		enrolled, capacity int
		want               float64
	}{
		{"27 of 30", 27, 30, 90},
		{"empty class", 0, 30, 0},
		{"full", 30, 30, 100},
		{"over capacity", 33, 30, 110},
		{"no capacity", 5, 0, 0},
		{"negative capacity", 5, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Utilization(tt.enrolled, tt.capacity), 1e-9)
		})
	}
}
