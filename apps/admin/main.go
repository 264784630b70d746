package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/report"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
	"github.com/trezcool/rapor/fs"
	"github.com/trezcool/rapor/services/email"
	"github.com/trezcool/rapor/services/logger"
	"github.com/trezcool/rapor/storage/database"
	"github.com/trezcool/rapor/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = db.Close() }()
	if err = db.Ping(); err != nil {
		logger.Fatal(fmt.Sprintf("pinging database: %v", err), err)
	}

	// set up services
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	subjects := sqlxrepos.NewSubjectRepository(db)
	teachers := sqlxrepos.NewTeacherRepository(db)
	classes := sqlxrepos.NewClassRoomRepository(db)
	students := sqlxrepos.NewStudentRepository(db)
	grades := sqlxrepos.NewGradeRepository(db)

	// start CLI
	cli := commandLine{
		conf:       conf,
		db:         db,
		validate:   validate,
		mailSvc:    mailSvc,
		out:        os.Stdout,
		subjectSvc: subject.NewService(subjects),
		teacherSvc: teacher.NewService(teachers, subjects),
		classSvc:   classroom.NewService(classes, teachers),
		studentSvc: student.NewService(students, classes),
		gradeSvc:   grade.NewService(grades, students, subjects, teachers),
		reportSvc: report.NewService(report.Repositories{
			Subjects: subjects,
			Teachers: teachers,
			Classes:  classes,
			Students: students,
			Grades:   grades,
		}, report.NewOptions(conf)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
