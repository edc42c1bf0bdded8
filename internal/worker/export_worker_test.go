package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/sheets"
)

type fakeWriter struct {
	written []sheets.Workbook
	err     error
}

func (f *fakeWriter) WriteWorkbook(_ context.Context, wb sheets.Workbook) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.written = append(f.written, wb)
	return "memory://workbook", nil
}

func newTestWorker(w sheets.WorkbookWriter) *ExportWorker {
	return NewExportWorker(w, log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)}))
}

func snapshot(t *testing.T) *amqp.ExportRequestMessage {
	t.Helper()
	a, err := core.NewTransaction("2025-02-01", "Sale", "revenue", "1000")
	if err != nil {
		t.Fatal(err)
	}
	b, err := core.NewTransaction("2025-02-02", "Supplies", "expense", "400")
	if err != nil {
		t.Fatal(err)
	}
	return amqp.NewExportRequestMessage([]core.Transaction{a, b})
}

func TestHandleExportRequest_WritesWorkbook(t *testing.T) {
	fw := &fakeWriter{}
	if err := newTestWorker(fw).HandleExportRequest(context.Background(), snapshot(t)); err != nil {
		t.Fatalf("HandleExportRequest: %v", err)
	}
	if len(fw.written) != 1 {
		t.Fatalf("written %d workbooks, want 1", len(fw.written))
	}

	wb := fw.written[0]
	want := []string{sheets.TransactionsSheet, sheets.IncomeSheet, sheets.BalanceSheet, sheets.CashFlowSheet}
	got := wb.SheetNames()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}
	// Net income row of the income statement.
	if v := wb.Sheets[1].Rows[3][1]; v != "₱600.00" {
		t.Errorf("net income = %v, want ₱600.00", v)
	}
}

func TestHandleExportRequest_EmptySnapshot(t *testing.T) {
	fw := &fakeWriter{}
	msg := amqp.NewExportRequestMessage(nil)
	if err := newTestWorker(fw).HandleExportRequest(context.Background(), msg); err != nil {
		t.Fatalf("empty snapshot should be acknowledged, got %v", err)
	}
	if len(fw.written) != 0 {
		t.Fatal("empty snapshot must not be written")
	}
}

func TestHandleExportRequest_InvalidSnapshotRejected(t *testing.T) {
	fw := &fakeWriter{}
	msg := snapshot(t)
	msg.Entries[0].Amount = "-5"

	err := newTestWorker(fw).HandleExportRequest(context.Background(), msg)
	if !errors.Is(err, amqp.ErrReject) {
		t.Fatalf("err = %v, want rejection", err)
	}
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("err = %v, want it to wrap ErrInvalidAmount", err)
	}
	if len(fw.written) != 0 {
		t.Fatal("invalid snapshot must not be written")
	}
}

func TestHandleExportRequest_WriteFailureRequeues(t *testing.T) {
	fw := &fakeWriter{err: errors.New("quota exceeded")}
	err := newTestWorker(fw).HandleExportRequest(context.Background(), snapshot(t))
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, amqp.ErrReject) {
		t.Fatal("write failures should be retried, not rejected")
	}
}
