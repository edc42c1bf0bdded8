// Package worker turns export requests received over AMQP into workbooks.
package worker

import (
	"context"
	"errors"
	"fmt"

	"bilancio/internal/amqp"
	"bilancio/internal/log"
	"bilancio/internal/sheets"
)

// ExportWorker writes one workbook per export request.
type ExportWorker struct {
	writer sheets.WorkbookWriter
	logger *log.Logger
}

func NewExportWorker(writer sheets.WorkbookWriter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		writer: writer,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleExportRequest rebuilds the snapshot, derives the workbook from it and
// hands it to the writer. Empty snapshots are acknowledged without writing;
// invalid snapshots are rejected so the broker does not redeliver them. Write
// failures are returned as-is and the delivery is requeued.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	txs, err := msg.Transactions()
	if errors.Is(err, amqp.ErrEmptySnapshot) {
		w.logger.WarnContext(ctx, "Dropping empty export request", log.FieldExportID, msg.ID)
		return nil
	}
	if err != nil {
		return amqp.Reject(fmt.Errorf("invalid snapshot %s: %w", msg.ID, err))
	}

	wb, err := sheets.Build(txs)
	if err != nil {
		return amqp.Reject(fmt.Errorf("build workbook: %w", err))
	}

	ref, err := w.writer.WriteWorkbook(ctx, wb)
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	w.logger.InfoContext(ctx, "Workbook exported",
		log.FieldExportID, msg.ID,
		log.FieldTransactionCount, len(txs),
		log.FieldExportRef, ref)
	return nil
}
