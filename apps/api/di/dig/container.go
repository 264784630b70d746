package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/rapor/apps/api/echo"
	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/report"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
	emailsvc "github.com/trezcool/rapor/services/email"
	logsvc "github.com/trezcool/rapor/services/logger"
	"github.com/trezcool/rapor/storage/database"
	sqlxrepos "github.com/trezcool/rapor/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	SubjectSvc *subject.Service
	TeacherSvc *teacher.Service
	ClassSvc   *classroom.Service
	StudentSvc *student.Service
	GradeSvc   *grade.Service
	ReportSvc  *report.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
		ctx := context.Background()
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(ctx, db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newReportRepositories(
	subjects subject.Repository,
	teachers teacher.Repository,
	classes classroom.Repository,
	students student.Repository,
	grades grade.Repository,
) report.Repositories {
	return report.Repositories{
		Subjects: subjects,
		Teachers: teachers,
		Classes:  classes,
		Students: students,
		Grades:   grades,
	}
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		SubjectSvc: p.SubjectSvc,
		TeacherSvc: p.TeacherSvc,
		ClassSvc:   p.ClassSvc,
		StudentSvc: p.StudentSvc,
		GradeSvc:   p.GradeSvc,
		ReportSvc:  p.ReportSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(sqlxrepos.NewSubjectRepository))
	must(c.Provide(sqlxrepos.NewTeacherRepository))
	must(c.Provide(sqlxrepos.NewClassRoomRepository))
	must(c.Provide(sqlxrepos.NewStudentRepository))
	must(c.Provide(sqlxrepos.NewGradeRepository))
	must(c.Provide(newReportRepositories))

	// services
	must(c.Provide(subject.NewService))
	must(c.Provide(teacher.NewService))
	must(c.Provide(classroom.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(grade.NewService))
	must(c.Provide(report.NewOptions))
	must(c.Provide(report.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
