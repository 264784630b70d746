package main

import (
	"bytes"
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/report"
)

const reportTemplate = "school_report"

type reportEmailData struct {
	Date     string
	Summary  report.Summary
	Attached bool
}

// sendReport emails the dashboard summary to every address of to, with the full report as an Excel attachment.
func (cli *commandLine) sendReport(to string, attach bool) error {
	recipients, err := mail.ParseAddressList(to)
	if err != nil {
		return errors.Wrap(err, "parsing recipients")
	}

	dashboard, err := cli.reportSvc.Dashboard(context.Background())
	if err != nil {
		return errors.Wrap(err, "computing dashboard")
	}

	date := time.Now().UTC().Format("2006-01-02")
	msg := &core.EmailMessage{
		Subject:      "School report " + date,
		TemplateName: reportTemplate,
		TemplateData: reportEmailData{Date: date, Summary: dashboard.Summary, Attached: attach},
	}
	for _, r := range recipients {
		msg.To = append(msg.To, *r)
	}

	if attach {
		var buf bytes.Buffer
		if err = report.WriteXLSX(&buf, dashboard); err != nil {
			return errors.Wrap(err, "writing report workbook")
		}
		if err = msg.Attach(&buf, "report-"+date+".xlsx", report.XLSXContentType); err != nil {
			return errors.Wrap(err, "attaching report workbook")
		}
	}

	if err = msg.Render(); err != nil {
		return errors.Wrap(err, "rendering report email")
	}
	if !msg.HasContent() {
		return errors.Errorf("rendering report email: template %q has no content", reportTemplate)
	}

	if err = cli.mailSvc.SendMessages(msg); err != nil {
		return errors.Wrap(err, "sending report")
	}
	cli.printf("report sent to %d recipient(s)\n", len(msg.To))
	return nil
}
