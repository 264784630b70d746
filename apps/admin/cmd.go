package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/report"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sqlx.DB
	validate *validator.Validate
	mailSvc  core.EmailService
	out      io.Writer

	subjectSvc *subject.Service
	teacherSvc *teacher.Service
	classSvc   *classroom.Service
	studentSvc *student.Service
	gradeSvc   *grade.Service
	reportSvc  *report.Service
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	out := cli.out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)\n")
	cli.printf("  seed [-file PATH] - load sample school data (embedded data by default) into an empty database\n")
	cli.printf("  sendreport -to ADDRESSES [-attach=false] - email the school report to a comma-separated list of addresses\n")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedFile := seedCmd.String("file", "", "YAML file to load instead of the embedded sample data.")

	sendReportCmd := flag.NewFlagSet("sendreport", flag.ContinueOnError)
	sendReportTo := sendReportCmd.String("to", "", "Comma-separated list of recipients.")
	sendReportAttach := sendReportCmd.Bool("attach", true, "Attach the full report as an Excel workbook.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedFile)
	case "sendreport":
		if err := sendReportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *sendReportTo == "" {
			sendReportCmd.Usage()
			return errHelp
		}
		return cli.sendReport(*sendReportTo, *sendReportAttach)
	default:
		cli.printUsage()
		return errHelp
	}
}
