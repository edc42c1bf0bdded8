package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"

	"bilancio/internal/core"
	"bilancio/internal/sheets"
)

// fakeSheetsAPI records the calls the client makes against the Sheets REST API.
type fakeSheetsAPI struct {
	mu        sync.Mutex
	existing  []string
	addedTabs []string
	cleared   []string
	written   map[string][][]any
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-123"):
		var sheetsJSON []map[string]any
		for _, name := range f.existing {
			sheetsJSON = append(sheetsJSON, map[string]any{"properties": map[string]any{"title": name}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheetsJSON})

	case strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-123:batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.addedTabs = append(f.addedTabs, rq.AddSheet.Properties.Title)
		}
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))

	case strings.HasSuffix(r.URL.Path, "/values:batchClear"):
		var req struct {
			Ranges []string `json:"ranges"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.cleared = append(f.cleared, req.Ranges...)
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))

	case strings.HasSuffix(r.URL.Path, "/values:batchUpdate"):
		var req struct {
			ValueInputOption string `json:"valueInputOption"`
			Data             []struct {
				Range  string  `json:"range"`
				Values [][]any `json:"values"`
			} `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.written = map[string][][]any{}
		rows := 0
		for _, d := range req.Data {
			f.written[d.Range] = d.Values
			rows += len(d.Values)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-123", "totalUpdatedRows": rows})

	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), "sheet-123",
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func sampleWorkbook(t *testing.T) sheets.Workbook {
	t.Helper()
	a, _ := core.NewTransaction("2025-05-01", "Sales", "revenue", "1000")
	b, _ := core.NewTransaction("2025-05-02", "Wages", "expense", "400")
	wb, err := sheets.Build([]core.Transaction{a, b})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return wb
}

func TestWriteWorkbook(t *testing.T) {
	api := &fakeSheetsAPI{existing: []string{"Sheet1", "Transactions"}}
	c := newTestClient(t, api)

	ref, err := c.WriteWorkbook(context.Background(), sampleWorkbook(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if ref != "https://docs.google.com/spreadsheets/d/sheet-123" {
		t.Fatalf("unexpected ref %q", ref)
	}

	wantAdded := []string{"Income Statement", "Balance Sheet", "Cash Flow Statement"}
	if strings.Join(api.addedTabs, "|") != strings.Join(wantAdded, "|") {
		t.Fatalf("added tabs = %v, want %v", api.addedTabs, wantAdded)
	}
	if len(api.cleared) != 4 || api.cleared[0] != "'Transactions'" {
		t.Fatalf("cleared = %v", api.cleared)
	}

	income := api.written["'Income Statement'!A1"]
	if len(income) != 4 || income[3][0] != "Net Income" || income[3][1] != "₱600.00" {
		t.Fatalf("income tab = %v", income)
	}
	trans := api.written["'Transactions'!A1"]
	if len(trans) != 3 || trans[1][2] != "Revenue" {
		t.Fatalf("transactions tab = %v", trans)
	}
}

func TestWriteWorkbookSkipsExistingTabs(t *testing.T) {
	api := &fakeSheetsAPI{existing: []string{"Transactions", "Income Statement", "Balance Sheet", "Cash Flow Statement"}}
	c := newTestClient(t, api)
	if _, err := c.WriteWorkbook(context.Background(), sampleWorkbook(t)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(api.addedTabs) != 0 {
		t.Fatalf("no tabs should be added, got %v", api.addedTabs)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-123"}
	if _, err := c.WriteWorkbook(context.Background(), sheets.Workbook{}); !errors.Is(err, sheets.ErrEmptyLedger) {
		t.Fatalf("expected ErrEmptyLedger, got %v", err)
	}
}

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNewFromEnv_UnreadableCredentialsFile(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/creds.json")

	_, err := NewFromEnv(context.Background())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Bob's Sheet"); got != "'Bob''s Sheet'" {
		t.Fatalf("quoteSheet = %q", got)
	}
}
