package report

import "github.com/trezcool/rapor/core/grade"

// Stats accumulates the grades of one group.
type Stats struct {
	Count  int
	Sum    float64
	Latest *grade.Grade // newest grade of the group

	distinct map[int]struct{}
}

// Average is the mean grade of the group, 0 when it holds no grade.
func (s *Stats) Average() float64 {
	if s == nil || s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Distinct is the number of distinct keys seen by the group (e.g. subjects of a student).
func (s *Stats) Distinct() int {
	if s == nil {
		return 0
	}
	return len(s.distinct)
}

func (s *Stats) add(g grade.Grade, distinctKey int) {
	s.Count++
	s.Sum += g.Grade
	s.distinct[distinctKey] = struct{}{}
	if s.Latest == nil || g.Newer(*s.Latest) {
		latest := g
		s.Latest = &latest
	}
}

// Aggregate groups grades by key in a single pass, counting the distinct values of distinct within each group.
func Aggregate[K comparable](grades []grade.Grade, key func(grade.Grade) K, distinct func(grade.Grade) int) map[K]*Stats {
	groups := make(map[K]*Stats)
	for _, g := range grades {
		k := key(g)
		s, ok := groups[k]
		if !ok {
			s = &Stats{distinct: make(map[int]struct{})}
			groups[k] = s
		}
		s.add(g, distinct(g))
	}
	return groups
}

// Summarize aggregates all grades into one group.
func Summarize(grades []grade.Grade, distinct func(grade.Grade) int) *Stats {
	return Aggregate(grades, func(grade.Grade) struct{} { return struct{}{} }, distinct)[struct{}{}]
}

// Mean is the average of grades, 0 when empty.
func Mean(grades []grade.Grade) float64 {
	return Summarize(grades, byStudent).Average()
}

// CountBy counts items per key.
func CountBy[K comparable, T any](items []T, key func(T) K) map[K]int {
	counts := make(map[K]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// Utilization is the share of capacity taken by enrolled, as a percentage (0 when capacity is 0).
func Utilization(enrolled, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(enrolled) / float64(capacity) * 100
}

func byStudent(g grade.Grade) int { return g.StudentID }
func bySubject(g grade.Grade) int { return g.SubjectID }
func byTeacher(g grade.Grade) int { return g.TeacherID }
