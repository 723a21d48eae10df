package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/enerdata/tradegate/internal/config"
	"github.com/enerdata/tradegate/internal/database"
)

// Backends point at a closed local port so session checkout fails
// immediately instead of timing out.
func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog := config.NewCatalog([]config.Backend{
		{Name: "timescaledb", DBType: "timescaledb", User: "u", Password: "p", Host: "127.0.0.1", Port: 1, Database: "market"},
		{Name: "PostgreSQL", DBType: "postgre", User: "u", Password: "p", Host: "127.0.0.1", Port: 1, Database: "main"},
	})
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	m := database.NewManager(catalog, logger)
	t.Cleanup(m.Shutdown)
	return NewService(m, logger)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func decodeObject(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return out
}

func TestRunQueryUnreachableBackend(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleRunQuery(context.Background(), callRequest("run_query", map[string]any{
		"sql_query": "SELECT 1",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeObject(t, res)
	if env["error"] != "Could not connect to database" {
		t.Errorf("error = %v", env["error"])
	}
}

func TestRunQueryMissingParameter(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleRunQuery(context.Background(), callRequest("run_query", map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result")
	}
	if text := resultText(t, res); !strings.Contains(text, "sql_query") {
		t.Errorf("message does not name the parameter: %q", text)
	}
}

func TestRunQueryUnknownExplicitDatabase(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleRunQuery(context.Background(), callRequest("run_query", map[string]any{
		"sql_query": "SELECT 1",
		"database":  "warehouse",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeObject(t, res)
	msg, _ := env["error"].(string)
	if !strings.Contains(msg, `"warehouse" not found`) {
		t.Errorf("explicit miss lost its detail: %q", msg)
	}
}

func TestAnalyzeQueryUnreachableBackend(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleAnalyzeQuery(context.Background(), callRequest("analyze_query_performance", map[string]any{
		"sql_query": "SELECT * FROM trades",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeObject(t, res)
	if env["error"] != "Could not connect to database" {
		t.Errorf("error = %v", env["error"])
	}
}

func TestListTablesUnreachableBackend(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleListTables(context.Background(), callRequest("list_tables", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var envs []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &envs); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(envs) != 1 || envs[0]["error"] != "Could not connect to database" {
		t.Errorf("envelope = %v", envs)
	}
}

func TestTableInfoMissingParameter(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleTableInfo(context.Background(), callRequest("get_table_info", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result")
	}
	if text := resultText(t, res); !strings.Contains(text, "table_name") {
		t.Errorf("message does not name the parameter: %q", text)
	}
}

func TestMarketSummaryUnreachableBackend(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleMarketSummary(context.Background(), callRequest("get_market_data_summary", map[string]any{
		"start_date": "2024-01-01",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeObject(t, res)
	if env["error"] != "Could not connect to database" {
		t.Errorf("error = %v", env["error"])
	}
}

func TestListDatabasesEnvelope(t *testing.T) {
	s := newTestService(t)
	res, err := s.handleListDatabases(context.Background(), callRequest("list_available_databases", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	raw := resultText(t, res)
	if strings.Contains(raw, "password") || strings.Contains(raw, `"p"`) {
		t.Fatalf("credentials leaked into envelope: %s", raw)
	}

	env := decodeObject(t, res)
	if env["success"] != true {
		t.Errorf("success = %v", env["success"])
	}
	if env["total_count"] != float64(2) {
		t.Errorf("total_count = %v", env["total_count"])
	}
	if usage, _ := env["usage"].(string); !strings.Contains(usage, "database") {
		t.Errorf("usage hint missing: %q", usage)
	}

	databases, ok := env["available_databases"].(map[string]any)
	if !ok {
		t.Fatalf("available_databases = %T", env["available_databases"])
	}
	entry, ok := databases["timescaledb"].(map[string]any)
	if !ok {
		t.Fatalf("timescaledb entry missing: %v", databases)
	}
	if entry["database_type"] != "timescaledb" || entry["host"] != "127.0.0.1" {
		t.Errorf("entry = %v", entry)
	}
	if entry["port"] != float64(1) {
		t.Errorf("port = %v", entry["port"])
	}
	if entry["database"] != "market" || entry["user"] != "u" {
		t.Errorf("entry = %v", entry)
	}
}

func TestListDatabasesDefaultCatalog(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	m := database.NewManager(config.DefaultCatalog(), logger)
	t.Cleanup(m.Shutdown)
	s := NewService(m, logger)

	res, err := s.handleListDatabases(context.Background(), callRequest("list_available_databases", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeObject(t, res)
	if env["total_count"] != float64(1) {
		t.Errorf("total_count = %v", env["total_count"])
	}
	databases, ok := env["available_databases"].(map[string]any)
	if !ok {
		t.Fatalf("available_databases = %T", env["available_databases"])
	}
	if _, ok := databases[config.DefaultName]; !ok {
		t.Errorf("default entry missing: %v", databases)
	}
}

func TestServerStatusUnreachableBackends(t *testing.T) {
	if testing.Short() {
		t.Skip("samples system counters for a second")
	}
	s := newTestService(t)
	res, err := s.handleServerStatus(context.Background(), callRequest("get_server_status", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeObject(t, res)

	if env["status"] != "running" {
		t.Errorf("status = %v", env["status"])
	}
	if env["server_type"] != serverType {
		t.Errorf("server_type = %v", env["server_type"])
	}

	names, ok := env["available_databases"].([]any)
	if !ok || len(names) != 2 {
		t.Fatalf("available_databases = %v", env["available_databases"])
	}
	if names[0] != "timescaledb" || names[1] != "PostgreSQL" {
		t.Errorf("registration order lost: %v", names)
	}

	if _, ok := env["system"].(map[string]any); !ok {
		t.Errorf("system = %T", env["system"])
	}

	connectivity, ok := env["database_connectivity"].(map[string]any)
	if !ok || len(connectivity) != 2 {
		t.Fatalf("database_connectivity = %v", env["database_connectivity"])
	}
	for name, v := range connectivity {
		entry, ok := v.(map[string]any)
		if !ok {
			t.Fatalf("%s entry = %T", name, v)
		}
		if entry["status"] != "failed" || entry["error"] != "No connection" {
			t.Errorf("%s = %v", name, entry)
		}
	}
}

func TestRegister(t *testing.T) {
	s := newTestService(t)
	srv := server.NewMCPServer("tradegate-test", "0.0.0",
		server.WithToolCapabilities(true),
	)
	s.Register(srv)
}
