// Command bulkgi выполняет Gate-In для списка накладных из файла или stdin
// и печатает прогресс и итоговый отчет.
//
// Накладные принимаются JSON-массивом или по одной на строку:
//
//	bulkgi -u https://api.example.com -i waybills.txt
//	pbpaste | bulkgi
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/InQaaaaGit/waybill_ops.git/internal/batch"
	"github.com/InQaaaaGit/waybill_ops.git/internal/buildinfo"
	"github.com/InQaaaaGit/waybill_ops.git/internal/config"
	"github.com/InQaaaaGit/waybill_ops.git/internal/delivery"
	"github.com/InQaaaaGit/waybill_ops.git/internal/logger"
	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
	"github.com/InQaaaaGit/waybill_ops.git/internal/service"
	"github.com/InQaaaaGit/waybill_ops.git/internal/storage"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("bulkgi: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(args[0], args[1:])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync(zl)
	zl.Debug("bulkgi", buildinfo.NewInfo(buildVersion, buildDate, buildCommit).Fields()...)

	raw, err := readInput(cfg.InputFile, stdin)
	if err != nil {
		return err
	}

	client := delivery.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, zl)
	svc := service.NewBulkService(client, storage.NewMemoryStorage(zl), zl)

	p := &printer{w: stdout}
	report, err := svc.RunGateIn(ctx, raw, batch.Hooks{
		OnProgress: func(e models.ProgressEvent) {
			p.printf("[%d/%d] %d%% %s\n", e.CompletedCount, e.TotalCount, e.Percent, e.RefID)
		},
	})
	if err != nil {
		return err
	}

	printReport(p, report)
	return p.err
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading input file: %w", err)
	}
	return string(data), nil
}

// printReport печатает сводку и таблицу: сначала успешные, затем неуспешные накладные
func printReport(p *printer, report *models.BatchReport) {
	s := report.Summary
	p.printf("\nTotal: %d  Success: %d  Failed: %d  Success rate: %s\n\n",
		s.TotalCount, s.SuccessCount, s.FailedCount, s.SuccessRate)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	tp := &printer{w: tw}
	tp.printf("#\tReference ID\tStatus\tMessage/Error\tHTTP Status\n")
	for i, o := range report.Outcomes() {
		status := "Success"
		if !o.Succeeded() {
			status = "Failed"
		}
		tp.printf("%d\t%s\t%s\t%s\t%d\n", i+1, o.RefID, status, o.Text(), o.HTTPStatus)
	}
	if tp.err == nil {
		tp.err = tw.Flush()
	}
	if p.err == nil {
		p.err = tp.err
	}
}

// printer запоминает первую ошибку записи
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
