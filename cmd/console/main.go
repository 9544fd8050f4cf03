// Command console запускает HTTP-консоль массовых операций над накладными.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/app"
	"github.com/InQaaaaGit/waybill_ops.git/internal/buildinfo"
	"github.com/InQaaaaGit/waybill_ops.git/internal/config"
	"github.com/InQaaaaGit/waybill_ops.git/internal/logger"
)

// Заполняются при сборке: go build -ldflags "-X main.buildVersion=v1.0.0 ..."
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout); err != nil {
		log.Fatalf("console: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	info := buildinfo.NewInfo(buildVersion, buildDate, buildCommit)
	if err := info.Print(stdout); err != nil {
		return err
	}

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

	zl.Info("Starting console", info.Fields()...)
	zl.Info("Delivery API", zap.String("url", cfg.APIBaseURL), zap.Duration("timeout", cfg.RequestTimeout))

	application, err := app.NewApp(cfg, zl)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
