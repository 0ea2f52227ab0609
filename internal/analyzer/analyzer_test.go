package analyzer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"archivist/internal/dbase"

	"github.com/tmc/langchaingo/llms"
)

func openAnalysisFixture(t *testing.T) *dbase.Inspector {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema := `
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	name TEXT,
	created_at TIMESTAMP
);
CREATE TABLE invoices (
	id INTEGER PRIMARY KEY,
	customer_id INTEGER REFERENCES customers(id),
	created_at TIMESTAMP
);
CREATE TABLE audit_logs (
	id INTEGER PRIMARY KEY,
	event TEXT,
	created_at TIMESTAMP
);
`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}

	inspector, err := dbase.New(db, dbase.DialectSQLite)
	if err != nil {
		t.Fatalf("new inspector: %v", err)
	}
	return inspector
}

func TestAnalyzeEndToEndWithMockModel(t *testing.T) {
	inspector := openAnalysisFixture(t)
	report, err := New(MockModel{}, inspector, nil).Analyze(context.Background())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if report.ID == "" {
		t.Fatal("expected a run ID")
	}
	if report.TotalTables != 3 {
		t.Fatalf("expected 3 analyzed tables, got %d", report.TotalTables)
	}
	if report.TotalGroups != 1 {
		t.Fatalf("expected 1 group, got %d", report.TotalGroups)
	}

	audit, ok := report.Tables["audit_logs"]
	if !ok {
		t.Fatal("missing audit_logs analysis")
	}
	if audit.Group != "DEFAULT_GROUP" {
		t.Fatalf("unexpected group: %q", audit.Group)
	}
	if audit.RCC == nil || audit.RCC.Code != "ADM150" {
		t.Fatalf("expected ADM150 for audit_logs, got %+v", audit.RCC)
	}
	if !audit.RCC.Known {
		t.Fatal("ADM150 is in the default catalog and should be Known")
	}
	if audit.Retention == nil || len(audit.Retention.Columns) == 0 || audit.Retention.Columns[0] != "created_at" {
		t.Fatalf("expected created_at retention column, got %+v", audit.Retention)
	}
	if audit.Priority < 1 || audit.Priority > 3 {
		t.Fatalf("priority out of range: %d", audit.Priority)
	}

	invoices := report.Tables["invoices"]
	if invoices == nil || invoices.RCC == nil || invoices.RCC.Code != "BNK460" {
		t.Fatalf("expected BNK460 for invoices, got %+v", invoices)
	}
}

func TestGroupTablesOrdersByPriority(t *testing.T) {
	report := &Report{
		Tables: map[string]*TableAnalysis{
			"a": {Group: "G", Priority: 3},
			"b": {Group: "G", Priority: 1},
			"c": {Group: "G", Priority: 1},
			"d": {Group: "OTHER", Priority: 2},
		},
	}

	got := report.GroupTables("G")
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: expected %s, got %s (full: %v)", i, want[i], got[i], got)
		}
	}

	names := report.GroupNames()
	if len(names) != 2 || names[0] != "G" || names[1] != "OTHER" {
		t.Fatalf("unexpected group names: %v", names)
	}
}

type brokenModel struct{ err error }

func (m brokenModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, m.err
}

func (m brokenModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestAnalyzeAbortsOnModelFailure(t *testing.T) {
	inspector := openAnalysisFixture(t)
	cause := errors.New("quota exhausted")

	_, err := New(brokenModel{err: cause}, inspector, nil).Analyze(context.Background())
	if err == nil {
		t.Fatal("expected analyze to fail when the model fails")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to stay reachable, got %v", err)
	}
}

func TestClassifyRCCKeepsUnknownCode(t *testing.T) {
	inspector := openAnalysisFixture(t)
	a := New(cannedModel{reply: `{"assigned_rcc": "ZZZ999", "reasoning": "made up"}`}, inspector, nil)

	result, err := a.ClassifyRCC(context.Background(), "widgets", "widgets: id INTEGER")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if result.Code != "ZZZ999" {
		t.Fatalf("expected assigned code preserved, got %q", result.Code)
	}
	if result.Known {
		t.Fatal("ZZZ999 is not in the catalog and must not be Known")
	}
}

type cannedModel struct{ reply string }

func (m cannedModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m cannedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
