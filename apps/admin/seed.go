package main

import (
	"context"
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
	"github.com/trezcool/rapor/fs"
)

const defaultSeedFile = "seed/school.yaml"

// seedData references records by natural key: subject code, teacher nip,
// class full name ("<grade_level> <name>") and student number.
type seedData struct {
	Subjects []struct {
		Name        string `yaml:"name"`
		Code        string `yaml:"code"`
		Description string `yaml:"description"`
	} `yaml:"subjects"`

	Teachers []struct {
		Name    string `yaml:"name"`
		Email   string `yaml:"email"`
		Phone   string `yaml:"phone"`
		NIP     string `yaml:"nip"`
		Subject string `yaml:"subject"`
	} `yaml:"teachers"`

	Classes []struct {
		Name       string `yaml:"name"`
		GradeLevel string `yaml:"grade_level"`
		Teacher    string `yaml:"teacher"`
		Capacity   int    `yaml:"capacity"`
	} `yaml:"classes"`

	Students []struct {
		Name          string `yaml:"name"`
		Email         string `yaml:"email"`
		Phone         string `yaml:"phone"`
		StudentNumber string `yaml:"student_number"`
		Class         string `yaml:"class"`
		BirthDate     string `yaml:"birth_date"`
		Address       string `yaml:"address"`
	} `yaml:"students"`

	Grades []struct {
		Student  string  `yaml:"student"`
		Subject  string  `yaml:"subject"`
		Teacher  string  `yaml:"teacher"`
		Semester string  `yaml:"semester"`
		Grade    float64 `yaml:"grade"`
		Notes    string  `yaml:"notes"`
	} `yaml:"grades"`
}

func loadSeedData(path string) (*seedData, error) {
	var (
		content []byte
		err     error
	)
	if path == "" {
		content, err = fs.ReadFile(appfs.FS, defaultSeedFile)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading seed data")
	}

	data := new(seedData)
	if err = yaml.Unmarshal(content, data); err != nil {
		return nil, errors.Wrap(err, "parsing seed data")
	}
	return data, nil
}

// seed creates every record of the seed file through the services, validating each of them.
// It stops at the first invalid record.
func (cli *commandLine) seed(path string) error {
	data, err := loadSeedData(path)
	if err != nil {
		return err
	}
	ctx := context.Background()

	subjects := make(map[string]int, len(data.Subjects))
	for _, s := range data.Subjects {
		ns := subject.NewSubject{Name: s.Name, Code: s.Code, Description: s.Description}
		if err = ns.Validate(ctx, cli.validate, cli.subjectSvc); err != nil {
			return errors.Wrapf(err, "subject %q", s.Code)
		}
		sbj, err := cli.subjectSvc.Create(ctx, ns)
		if err != nil {
			return errors.Wrapf(err, "creating subject %q", s.Code)
		}
		subjects[sbj.Code] = sbj.ID
	}

	teachers := make(map[string]int, len(data.Teachers))
	for _, t := range data.Teachers {
		subjectID, ok := subjects[t.Subject]
		if !ok {
			return errors.Errorf("teacher %q: unknown subject %q", t.NIP, t.Subject)
		}
		nt := teacher.NewTeacher{Name: t.Name, Email: t.Email, Phone: t.Phone, NIP: t.NIP, SubjectID: subjectID}
		if err = nt.Validate(ctx, cli.validate, cli.teacherSvc); err != nil {
			return errors.Wrapf(err, "teacher %q", t.NIP)
		}
		tch, err := cli.teacherSvc.Create(ctx, nt)
		if err != nil {
			return errors.Wrapf(err, "creating teacher %q", t.NIP)
		}
		teachers[tch.NIP] = tch.ID
	}

	classes := make(map[string]int, len(data.Classes))
	for _, c := range data.Classes {
		teacherID, ok := teachers[c.Teacher]
		if !ok {
			return errors.Errorf("class %q: unknown teacher %q", c.Name, c.Teacher)
		}
		nc := classroom.NewClassRoom{Name: c.Name, GradeLevel: c.GradeLevel, TeacherID: teacherID, Capacity: c.Capacity}
		if err = nc.Validate(ctx, cli.validate, cli.classSvc); err != nil {
			return errors.Wrapf(err, "class %q", c.GradeLevel+" "+c.Name)
		}
		cls, err := cli.classSvc.Create(ctx, nc)
		if err != nil {
			return errors.Wrapf(err, "creating class %q", c.GradeLevel+" "+c.Name)
		}
		classes[cls.FullName()] = cls.ID
	}

	students := make(map[string]int, len(data.Students))
	for _, s := range data.Students {
		classID, ok := classes[s.Class]
		if !ok {
			return errors.Errorf("student %q: unknown class %q", s.StudentNumber, s.Class)
		}
		ns := student.NewStudent{
			Name:          s.Name,
			Email:         s.Email,
			Phone:         s.Phone,
			StudentNumber: s.StudentNumber,
			ClassID:       classID,
			BirthDate:     s.BirthDate,
			Address:       s.Address,
		}
		if err = ns.Validate(ctx, cli.validate, cli.studentSvc); err != nil {
			return errors.Wrapf(err, "student %q", s.StudentNumber)
		}
		std, err := cli.studentSvc.Create(ctx, ns)
		if err != nil {
			return errors.Wrapf(err, "creating student %q", s.StudentNumber)
		}
		students[std.StudentNumber] = std.ID
	}

	for i, g := range data.Grades {
		value := g.Grade
		ng := grade.NewGrade{
			StudentID: students[g.Student], // unknown keys fail validation
			SubjectID: subjects[g.Subject],
			TeacherID: teachers[g.Teacher],
			Semester:  g.Semester,
			Grade:     &value,
			Notes:     g.Notes,
		}
		if err = ng.Validate(ctx, cli.validate, cli.gradeSvc); err != nil {
			return errors.Wrapf(err, "grade #%d", i+1)
		}
		if _, err = cli.gradeSvc.Create(ctx, ng); err != nil {
			return errors.Wrapf(err, "creating grade #%d", i+1)
		}
	}

	cli.printf("seeded %d subjects, %d teachers, %d classes, %d students and %d grades\n",
		len(subjects), len(teachers), len(classes), len(students), len(data.Grades))
	return nil
}
