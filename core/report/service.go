package report

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
)

type (
	Options struct {
		// DashboardGradeWindow is the number of most recent grades the dashboard average covers (0: all).
		DashboardGradeWindow int
		DefaultPrecision     core.Precision
		GradesPrecision      core.Precision
	}

	Repositories struct {
		Subjects subject.Repository
		Teachers teacher.Repository
		Classes  classroom.Repository
		Students student.Repository
		Grades   grade.Repository
	}

	// Service computes read-only reports from a fresh snapshot of the store on every call.
	Service struct {
		repos Repositories
		opts  Options
	}
)

func NewOptions(conf *core.Config) Options {
	return Options{
		DashboardGradeWindow: conf.Reports.DashboardGradeWindow,
		DefaultPrecision:     core.Precision(conf.Reports.DefaultPrecision),
		GradesPrecision:      core.Precision(conf.Reports.GradesPrecision),
	}
}

func NewService(repos Repositories, opts Options) *Service {
	if opts.DashboardGradeWindow < 0 {
		opts.DashboardGradeWindow = 0
	}
	return &Service{repos: repos, opts: opts}
}

// snapshot holds the entities a report is computed from, sorted for presentation.
type snapshot struct {
	subjects []subject.Subject
	teachers []teacher.Teacher
	classes  []classroom.ClassRoom
	students []student.Student
	grades   []grade.Grade // newest first; orphans skipped

	subjectByID map[int]subject.Subject
	teacherByID map[int]teacher.Teacher
	classByID   map[int]classroom.ClassRoom
	studentByID map[int]student.Student
}

func (svc *Service) load(ctx context.Context, studentFilter *student.QueryFilter, gradeFilter *grade.QueryFilter) (*snapshot, error) {
	var (
		snap = new(snapshot)
		err  error
	)
	if snap.subjects, err = svc.repos.Subjects.QuerySubjects(ctx, nil, nil); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	if snap.teachers, err = svc.repos.Teachers.QueryTeachers(ctx, nil, nil); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	if snap.classes, err = svc.repos.Classes.QueryClassRooms(ctx, nil, nil); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	if snap.students, err = svc.repos.Students.QueryStudents(ctx, nil, nil); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	grades, err := svc.repos.Grades.QueryGrades(ctx, gradeFilter, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}

	sort.SliceStable(snap.subjects, func(i, j int) bool { return snap.subjects[i].Name < snap.subjects[j].Name })
	sort.SliceStable(snap.teachers, func(i, j int) bool { return snap.teachers[i].Name < snap.teachers[j].Name })
	sort.SliceStable(snap.classes, func(i, j int) bool {
		ci, cj := snap.classes[i], snap.classes[j]
		if ci.GradeLevel != cj.GradeLevel {
			return ci.GradeLevel < cj.GradeLevel
		}
		return ci.Name < cj.Name
	})
	sort.SliceStable(snap.students, func(i, j int) bool { return snap.students[i].Name < snap.students[j].Name })
	sort.SliceStable(grades, func(i, j int) bool { return grades[i].Newer(grades[j]) })

	snap.subjectByID = indexBy(snap.subjects, func(s subject.Subject) int { return s.ID })
	snap.teacherByID = indexBy(snap.teachers, func(t teacher.Teacher) int { return t.ID })
	snap.classByID = indexBy(snap.classes, func(c classroom.ClassRoom) int { return c.ID })
	snap.studentByID = indexBy(snap.students, func(s student.Student) int { return s.ID })

	snap.grades = make([]grade.Grade, 0, len(grades))
	for _, g := range grades {
		_, okStd := snap.studentByID[g.StudentID]
		_, okSbj := snap.subjectByID[g.SubjectID]
		_, okTch := snap.teacherByID[g.TeacherID]
		if okStd && okSbj && okTch {
			snap.grades = append(snap.grades, g)
		}
	}

	if !studentFilter.IsEmpty() && studentFilter.ClassID != 0 {
		filtered := make([]student.Student, 0, len(snap.students))
		for _, s := range snap.students {
			if s.ClassID == studentFilter.ClassID {
				filtered = append(filtered, s)
			}
		}
		snap.students = filtered
	}
	return snap, nil
}

func indexBy[T any](items []T, id func(T) int) map[int]T {
	idx := make(map[int]T, len(items))
	for _, item := range items {
		idx[id(item)] = item
	}
	return idx
}

func (snap *snapshot) subjectRef(id int) *SubjectRef {
	s, ok := snap.subjectByID[id]
	if !ok {
		return nil
	}
	ref := newSubjectRef(s)
	return &ref
}

func (snap *snapshot) teacherRef(id int) *TeacherRef {
	t, ok := snap.teacherByID[id]
	if !ok {
		return nil
	}
	var sbj *subject.Subject
	if s, ok := snap.subjectByID[t.SubjectID]; ok {
		sbj = &s
	}
	ref := newTeacherRef(t, sbj)
	return &ref
}

func (snap *snapshot) classRef(id int) *ClassRef {
	c, ok := snap.classByID[id]
	if !ok {
		return nil
	}
	ref := newClassRef(c, snap.teacherRef(c.TeacherID))
	return &ref
}

// gradeRow joins g with its student (and class), subject and teacher. g must not be an orphan.
func (snap *snapshot) gradeRow(g grade.Grade) GradeRow {
	std := snap.studentByID[g.StudentID]
	return newGradeRow(
		g,
		newStudentRef(std, snap.classRef(std.ClassID)),
		*snap.subjectRef(g.SubjectID),
		*snap.teacherRef(g.TeacherID),
	)
}

func (svc *Service) classRows(snap *snapshot) []ClassRow {
	enrolled := CountBy(snap.students, func(s student.Student) int { return s.ClassID })
	prec := svc.opts.DefaultPrecision

	rows := make([]ClassRow, 0, len(snap.classes))
	for _, c := range snap.classes {
		rows = append(rows, ClassRow{
			ID:           c.ID,
			Name:         c.Name,
			GradeLevel:   c.GradeLevel,
			Capacity:     c.Capacity,
			StudentCount: enrolled[c.ID],
			Utilization:  prec.Round(Utilization(enrolled[c.ID], c.Capacity)),
			Teacher:      snap.teacherRef(c.TeacherID),
		})
	}
	return rows
}

func (svc *Service) studentRows(snap *snapshot) []StudentRow {
	stats := Aggregate(snap.grades, byStudent, bySubject)
	prec := svc.opts.DefaultPrecision

	rows := make([]StudentRow, 0, len(snap.students))
	for _, s := range snap.students {
		st := stats[s.ID]
		row := StudentRow{
			ID:            s.ID,
			Name:          s.Name,
			Email:         s.Email,
			StudentNumber: s.StudentNumber,
			Class:         snap.classRef(s.ClassID),
			AverageGrade:  prec.Round(st.Average()),
			TotalSubjects: st.Distinct(),
		}
		if st != nil {
			row.TotalGrades = st.Count
			latest := snap.gradeRow(*st.Latest)
			row.LatestGrade = &latest
		}
		rows = append(rows, row)
	}
	return rows
}

func (svc *Service) teacherRows(snap *snapshot) []TeacherRow {
	stats := Aggregate(snap.grades, byTeacher, byStudent)
	homerooms := make(map[int][]ClassRef)
	for _, c := range snap.classes {
		homerooms[c.TeacherID] = append(homerooms[c.TeacherID], newClassRef(c, nil))
	}
	prec := svc.opts.DefaultPrecision

	rows := make([]TeacherRow, 0, len(snap.teachers))
	for _, t := range snap.teachers {
		st := stats[t.ID]
		row := TeacherRow{
			ID:            t.ID,
			Name:          t.Name,
			Email:         t.Email,
			NIP:           t.NIP,
			Subject:       snap.subjectRef(t.SubjectID),
			Classes:       homerooms[t.ID],
			AverageGrade:  prec.Round(st.Average()),
			TotalStudents: st.Distinct(),
		}
		if row.Classes == nil {
			row.Classes = []ClassRef{}
		}
		if st != nil {
			row.TotalGrades = st.Count
		}
		rows = append(rows, row)
	}
	return rows
}

func (svc *Service) subjectRows(snap *snapshot) []SubjectRow {
	stats := Aggregate(snap.grades, bySubject, byStudent)
	teachers := make(map[int][]TeacherRef)
	for _, t := range snap.teachers {
		teachers[t.SubjectID] = append(teachers[t.SubjectID], newTeacherRef(t, nil))
	}
	prec := svc.opts.DefaultPrecision

	rows := make([]SubjectRow, 0, len(snap.subjects))
	for _, s := range snap.subjects {
		st := stats[s.ID]
		row := SubjectRow{
			ID:            s.ID,
			Name:          s.Name,
			Code:          s.Code,
			Description:   s.Description,
			Teachers:      teachers[s.ID],
			AverageGrade:  prec.Round(st.Average()),
			TotalStudents: st.Distinct(),
		}
		if row.Teachers == nil {
			row.Teachers = []TeacherRef{}
		}
		if st != nil {
			row.TotalGrades = st.Count
		}
		rows = append(rows, row)
	}
	return rows
}

func (snap *snapshot) gradeRows(grades []grade.Grade) []GradeRow {
	rows := make([]GradeRow, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, snap.gradeRow(g))
	}
	return rows
}

// ClassReport lists every class with its homeroom teacher, enrollment and utilization.
func (svc *Service) ClassReport(ctx context.Context) ([]ClassRow, error) {
	snap, err := svc.load(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return svc.classRows(snap), nil
}

// StudentReport lists students (of classID if not 0) with their grade statistics.
func (svc *Service) StudentReport(ctx context.Context, classID int) ([]StudentRow, error) {
	if classID != 0 {
		if _, err := svc.repos.Classes.GetClassRoom(ctx, classID); err != nil {
			return nil, err
		}
	}
	snap, err := svc.load(ctx, &student.QueryFilter{ClassID: classID}, nil)
	if err != nil {
		return nil, err
	}
	return svc.studentRows(snap), nil
}

// TeacherReport lists teachers with their subject, homeroomed classes and the statistics of the grades they gave.
func (svc *Service) TeacherReport(ctx context.Context) ([]TeacherRow, error) {
	snap, err := svc.load(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return svc.teacherRows(snap), nil
}

// SubjectReport lists subjects with their teachers and grade statistics.
func (svc *Service) SubjectReport(ctx context.Context) ([]SubjectRow, error) {
	snap, err := svc.load(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return svc.subjectRows(snap), nil
}

// GradeReport lists the grades matching all of filter's fields, newest first, with their average
// and the number of distinct students graded.
func (svc *Service) GradeReport(ctx context.Context, filter GradeFilter) (GradeReport, error) {
	filter.Semester = core.CleanString(filter.Semester)
	if filter.ClassID != 0 {
		if _, err := svc.repos.Classes.GetClassRoom(ctx, filter.ClassID); err != nil {
			return GradeReport{}, err
		}
	}
	if filter.SubjectID != 0 {
		if _, err := svc.repos.Subjects.GetSubject(ctx, filter.SubjectID); err != nil {
			return GradeReport{}, err
		}
	}

	snap, err := svc.load(ctx, nil, &grade.QueryFilter{
		ClassID:   filter.ClassID,
		SubjectID: filter.SubjectID,
		Semester:  filter.Semester,
	})
	if err != nil {
		return GradeReport{}, err
	}

	st := Summarize(snap.grades, byStudent)
	rep := GradeReport{
		Grades:        snap.gradeRows(snap.grades),
		AverageGrade:  svc.opts.GradesPrecision.Round(st.Average()),
		TotalStudents: st.Distinct(),
		Filters:       filter,
		Classes:       make([]ClassRef, 0, len(snap.classes)),
		Subjects:      make([]SubjectRef, 0, len(snap.subjects)),
	}
	for _, c := range snap.classes {
		rep.Classes = append(rep.Classes, newClassRef(c, nil))
	}
	for _, s := range snap.subjects {
		rep.Subjects = append(rep.Subjects, newSubjectRef(s))
	}
	return rep, nil
}

// StudentDetail is the report of one student, with their class, homeroom teacher and grades.
func (svc *Service) StudentDetail(ctx context.Context, id int) (StudentDetail, error) {
	if _, err := svc.repos.Students.GetStudent(ctx, id); err != nil {
		return StudentDetail{}, err
	}
	snap, err := svc.load(ctx, nil, &grade.QueryFilter{StudentID: id})
	if err != nil {
		return StudentDetail{}, err
	}
	std, ok := snap.studentByID[id]
	if !ok {
		return StudentDetail{}, student.ErrNotFound
	}
	snap.students = []student.Student{std}
	return StudentDetail{
		StudentRow: svc.studentRows(snap)[0],
		Grades:     snap.gradeRows(snap.grades),
	}, nil
}

// ClassDetail is the report of one class, with its homeroom teacher and enrolled students.
func (svc *Service) ClassDetail(ctx context.Context, id int) (ClassDetail, error) {
	if _, err := svc.repos.Classes.GetClassRoom(ctx, id); err != nil {
		return ClassDetail{}, err
	}
	snap, err := svc.load(ctx, &student.QueryFilter{ClassID: id}, &grade.QueryFilter{ClassID: id})
	if err != nil {
		return ClassDetail{}, err
	}
	cls, ok := snap.classByID[id]
	if !ok {
		return ClassDetail{}, classroom.ErrNotFound
	}
	snap.classes = []classroom.ClassRoom{cls}
	return ClassDetail{
		ClassRow: svc.classRows(snap)[0],
		Students: svc.studentRows(snap),
	}, nil
}

// TeacherDetail is the report of one teacher, with their subject, homeroomed classes and the grades they gave.
func (svc *Service) TeacherDetail(ctx context.Context, id int) (TeacherDetail, error) {
	if _, err := svc.repos.Teachers.GetTeacher(ctx, id); err != nil {
		return TeacherDetail{}, err
	}
	snap, err := svc.load(ctx, nil, &grade.QueryFilter{TeacherID: id})
	if err != nil {
		return TeacherDetail{}, err
	}
	tch, ok := snap.teacherByID[id]
	if !ok {
		return TeacherDetail{}, teacher.ErrNotFound
	}
	snap.teachers = []teacher.Teacher{tch}
	return TeacherDetail{
		TeacherRow: svc.teacherRows(snap)[0],
		Grades:     snap.gradeRows(snap.grades),
	}, nil
}

// Dashboard combines every report with the global summary.
func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	snap, err := svc.load(ctx, nil, nil)
	if err != nil {
		return Dashboard{}, err
	}

	recent := snap.grades
	if w := svc.opts.DashboardGradeWindow; w > 0 && len(recent) > w {
		recent = recent[:w]
	}

	var totalCapacity int
	for _, c := range snap.classes {
		totalCapacity += c.Capacity
	}
	var enrolled int
	for _, s := range snap.students {
		if _, ok := snap.classByID[s.ClassID]; ok {
			enrolled++
		}
	}

	prec := svc.opts.DefaultPrecision
	return Dashboard{
		Summary: Summary{
			TotalClasses:        len(snap.classes),
			TotalStudents:       len(snap.students),
			TotalTeachers:       len(snap.teachers),
			TotalSubjects:       len(snap.subjects),
			AverageGrade:        prec.Round(Mean(recent)),
			TotalCapacity:       totalCapacity,
			UtilizationRate:     prec.Round(Utilization(enrolled, totalCapacity)),
			GradeWindow:         svc.opts.DashboardGradeWindow,
			OverallAverageGrade: prec.Round(Mean(snap.grades)),
		},
		Classes:  svc.classRows(snap),
		Students: svc.studentRows(snap),
		Grades:   snap.gradeRows(recent),
		Subjects: svc.subjectRows(snap),
		Teachers: svc.teacherRows(snap),
	}, nil
}
