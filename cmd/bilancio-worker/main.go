package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	"bilancio/internal/cli"
	"bilancio/internal/config"
	"bilancio/internal/log"
	"bilancio/internal/sheets"
	gsheet "bilancio/internal/sheets/google"
	"bilancio/internal/sheets/xlsx"
	"bilancio/internal/worker"
)

func main() {
	cfg, logger := cli.MustBootstrap((*config.Config).ValidateWorker)
	logger.Info("Starting bilancio-worker", log.FieldOperation, log.OpStartup)

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	writer, err := workbookWriter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	exportWorker := worker.NewExportWorker(writer, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeExportRequests(gctx, exportWorker.HandleExportRequest)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// workbookWriter picks Google Sheets when a spreadsheet is configured and
// falls back to .xlsx files in the export directory.
func workbookWriter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.WorkbookWriter, error) {
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("Exporting to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return client, nil
	}
	logger.Info("Google Sheets disabled - writing workbooks to disk", "dir", cfg.ExportDir)
	return xlsx.NewFileWriter(cfg.ExportDir), nil
}
