package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/log"
	"bilancio/internal/sheets"
	"bilancio/internal/sheets/xlsx"
)

const (
	msgEmptyExport   = "Please add some transactions before downloading."
	msgExportOffline = "Export to Google Sheets is not available."
)

var startedAt = time.Now()

// handleHealth performs basic liveness check
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Round(time.Second).String(),
	})
}

// handleReady reports readiness along with session and request counters
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.publisher != nil {
		checks["sheets_export"] = "ok"
	} else {
		checks["sheets_export"] = "not_configured"
	}

	m := s.GetMetrics()
	checks["sessions"] = map[string]any{"active": s.sessions.Count()}
	checks["requests"] = map[string]any{"total": m.TotalRequests, "server_errors": m.ServerErrors, "rate_limited": m.RateLimited}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handleIndex renders the full page: entry form, ledger and statements.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	data := struct {
		Today      string
		Categories []categoryOption
		Ledger     ledgerView
	}{
		Today:      core.Date{Time: time.Now()}.String(),
		Categories: categoryOptions(),
		Ledger:     newLedgerView(s.readLedger(r), s.publisher != nil),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logFailure(r, "Index template execution failed", err, log.ComponentTemplate, log.OpRender)
		InternalServerError("Unable to render page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleLedger renders the ledger partial (table and statements).
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	resp, ok := s.ledgerResponse(w, r, s.readLedger(r))
	if !ok {
		return
	}
	resp.Write(w)
}

// handleCreateTransaction validates the submitted form and appends it to the
// caller's ledger. Invalid input leaves the ledger untouched.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	logger := log.FromContext(r.Context())
	tx, err := ReadTransactionForm(r).Transaction()
	if err != nil {
		logger.WarnContext(r.Context(), "Rejected transaction", log.FieldError, err, log.FieldOperation, log.OpValidate)
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	sessionID, store := s.sessions.Ledger(w, r)
	if err := store.Append(tx); err != nil {
		logger.WarnContext(r.Context(), "Rejected transaction", log.FieldError, err, log.FieldSessionID, sessionID)
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}
	count := store.Len()
	log.NewStructuredLogger(logger).LogTransactionCreated(r.Context(), sessionID, tx, count)

	resp, ok := s.ledgerResponse(w, r, store.All())
	if !ok {
		return
	}
	resp.TriggerTransactionCreated(count).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction added").
		Write(w)
}

// handleDeleteTransaction removes the transaction at the submitted 0-based index.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	index, err := ParseIndex(r)
	if err != nil {
		BadRequestError("Invalid transaction index").Write(w)
		return
	}

	logger := log.FromContext(r.Context())
	sessionID, store, found := s.sessions.Peek(r)
	if !found {
		NotFoundError("Transaction " + strconv.Itoa(index+1) + " does not exist").Write(w)
		return
	}
	removed, err := store.RemoveAt(index)
	if errors.Is(err, ledger.ErrIndexOutOfRange) {
		logger.WarnContext(r.Context(), "Remove out of range",
			log.FieldIndex, index, log.FieldSessionID, sessionID, log.FieldError, err)
		NotFoundError("Transaction " + strconv.Itoa(index+1) + " does not exist").Write(w)
		return
	}
	if err != nil {
		s.logFailure(r, "Remove failed", err, log.ComponentLedger, log.OpDelete)
		InternalServerError("Unable to remove transaction").Write(w)
		return
	}
	count := store.Len()
	log.NewStructuredLogger(logger).LogTransactionRemoved(r.Context(), sessionID, index, removed, count)

	resp, ok := s.ledgerResponse(w, r, store.All())
	if !ok {
		return
	}
	resp.TriggerTransactionDeleted(index, count).Write(w)
}

// handleExportXLSX streams the workbook built from the caller's ledger.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	logger := log.FromContext(r.Context()).WithComponent(log.ComponentExport)
	sessionID, _, _ := s.sessions.Peek(r)
	wb, err := sheets.Build(s.readLedger(r))
	if errors.Is(err, sheets.ErrEmptyLedger) {
		UnprocessableEntityError(msgEmptyExport).
			TriggerNotification(NotificationWarning, msgEmptyExport, 4000).
			Write(w)
		return
	}
	if err != nil {
		s.logFailure(r, "Workbook build failed", err, log.ComponentExport, log.OpExport)
		InternalServerError("Unable to build workbook").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.Encode(&buf, wb); err != nil {
		s.logFailure(r, "Workbook encoding failed", err, log.ComponentExport, log.OpExport)
		InternalServerError("Unable to build workbook").Write(w)
		return
	}

	logger.InfoContext(r.Context(), "Workbook downloaded",
		log.FieldSessionID, sessionID,
		log.FieldTransactionCount, len(wb.Sheets[0].Rows)-1,
		log.FieldOperation, log.OpExport)

	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, wb.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExportSheets queues a snapshot of the caller's ledger for export to
// Google Sheets. The request returns as soon as the broker has the message.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.publisher == nil {
		ServiceUnavailableError(msgExportOffline).Write(w)
		return
	}

	logger := log.FromContext(r.Context()).WithComponent(log.ComponentExport)
	sessionID, _, _ := s.sessions.Peek(r)
	txs := s.readLedger(r)
	if len(txs) == 0 {
		UnprocessableEntityError(msgEmptyExport).
			TriggerNotification(NotificationWarning, msgEmptyExport, 4000).
			Write(w)
		return
	}

	msg := amqp.NewExportRequestMessage(txs)
	if err := s.publisher.PublishExportRequest(r.Context(), msg); err != nil {
		logger.ErrorContext(r.Context(), "Export request publish failed",
			log.FieldError, err, log.FieldSessionID, sessionID, log.FieldOperation, log.OpPublish)
		ServiceUnavailableError(msgExportOffline).
			TriggerErrorNotification("Export failed, please try again.").
			Write(w)
		return
	}

	logger.InfoContext(r.Context(), "Export requested",
		log.FieldSessionID, sessionID,
		log.FieldExportID, msg.ID,
		log.FieldTransactionCount, len(txs))

	NewHTMXResponse().
		Status(http.StatusAccepted).
		TriggerSuccessNotification("Export to Google Sheets started").
		BodyHTML(`<div class="success" role="status">Export queued</div>`).
		Write(w)
}

// readLedger returns the caller's transactions. Without a live session it
// returns nil and does not start one.
func (s *Server) readLedger(r *http.Request) []core.Transaction {
	if _, store, ok := s.sessions.Peek(r); ok {
		return store.All()
	}
	return nil
}

// logFailure records a server-side failure with the request's session.
func (s *Server) logFailure(r *http.Request, msg string, err error, component, operation string) {
	fields := log.NewFields()
	if id, _, ok := s.sessions.Peek(r); ok {
		fields = fields.WithSessionID(id)
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), msg, err, component, operation, fields)
}

// ledgerResponse renders the ledger partial into a response builder. On a
// template failure it writes a 500 itself and returns false.
func (s *Server) ledgerResponse(w http.ResponseWriter, r *http.Request, txs []core.Transaction) (*HTMXResponseBuilder, bool) {
	var buf bytes.Buffer
	view := newLedgerView(txs, s.publisher != nil)
	if err := s.templates.ExecuteTemplate(&buf, "ledger", view); err != nil {
		s.logFailure(r, "Ledger template execution failed", err, log.ComponentTemplate, log.OpRender)
		InternalServerError("Unable to render ledger").Write(w)
		return nil, false
	}
	return NewHTMXResponse().BodyHTML(buf.String()), true
}
