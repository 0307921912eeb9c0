package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-l10n/cmd/internal/bootstrap"
	csvcmd "github.com/goliatone/go-l10n/internal/commands/csv"
	"github.com/goliatone/go-l10n/internal/csvtransfer"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runUpload(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("l10n upload: %v", err)
	}
}

func runUpload(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("l10n-upload", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: l10n-upload [flags] <csv_file> <user_email>")
		fs.PrintDefaults()
	}
	provider := fs.String("provider", "sqlite", "Database provider (sqlite or postgres)")
	dsn := fs.String("db", "", "Database connection string")
	project := fs.String("project", "", "Project slug; the file then uses the project layout without a Project column")
	onRowError := fs.String("on-row-error", csvtransfer.OnRowErrorAbort, "abort or skip rows that fail")
	logLevel := fs.String("log-level", "warn", "Log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("expected <csv_file> and <user_email>")
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{
		Provider:    *provider,
		DSN:         *dsn,
		LogLevel:    *logLevel,
		OnRowError:  *onRowError,
		SeedLocales: true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	unsubscribe := module.Module.SubscribeCommands()
	defer unsubscribe()

	var report *csvtransfer.ImportReport
	cmd := csvcmd.ImportTranslationsCommand{
		ProjectSlug:    *project,
		FilePath:       fs.Arg(0),
		UserEmail:      fs.Arg(1),
		OnRowError:     *onRowError,
		ResultCallback: func(r *csvtransfer.ImportReport) { report = r },
	}
	if err := dispatcher.Dispatch(ctx, cmd); err != nil {
		return fmt.Errorf("import %s: %s", cmd.FilePath, csvtransfer.Message(err))
	}
	if report == nil {
		return errors.New("import finished without a report")
	}
	printReport(out, report)
	return nil
}

func printReport(out io.Writer, report *csvtransfer.ImportReport) {
	fmt.Fprintf(out, "rows=%d activated=%d suggested=%d unchanged=%d notified=%d\n",
		report.Rows, report.Activated, report.Suggested, report.Unchanged, report.Notified)
	for _, rowErr := range report.Errors {
		fmt.Fprintf(out, "skipped %s\n", rowErr.Error())
	}
}
