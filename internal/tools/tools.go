package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/enerdata/tradegate/internal/database"
	"github.com/enerdata/tradegate/internal/router"
)

// Service holds the tool handlers. Every handler resolves a backend, runs
// its statements on a session checked out for that one invocation, and
// releases the session before rendering the envelope.
type Service struct {
	manager *database.Manager
	logger  *slog.Logger
}

// NewService creates the tool service over a database manager.
func NewService(manager *database.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{manager: manager, logger: logger}
}

// Register adds every tool to the MCP server.
func (s *Service) Register(srv *server.MCPServer) {
	serverStatusTool := mcp.NewTool("get_server_status",
		mcp.WithDescription("Get comprehensive server status including system resources and database connectivity."),
	)
	srv.AddTool(serverStatusTool, s.handleServerStatus)

	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List all tables in the database with basic information."),
		mcp.WithString("database",
			mcp.Description("Backend name from list_available_databases. Overrides task-based routing when set."),
		),
	)
	srv.AddTool(listTablesTool, s.handleListTables)

	tableInfoTool := mcp.NewTool("get_table_info",
		mcp.WithDescription("Get detailed information about a specific table including columns, data types, and sample data."),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("Name of the table to describe."),
		),
		mcp.WithString("schema_name",
			mcp.Description("Schema the table lives in (default: public)."),
		),
		mcp.WithString("database",
			mcp.Description("Backend name from list_available_databases. Overrides task-based routing when set."),
		),
	)
	srv.AddTool(tableInfoTool, s.handleTableInfo)

	runQueryTool := mcp.NewTool("run_query",
		mcp.WithDescription("Execute a SQL query and return results. Use task_type to steer database routing or specify database directly."),
		mcp.WithString("sql_query",
			mcp.Required(),
			mcp.Description("SQL statement to execute."),
		),
		mcp.WithString("task_type",
			mcp.Description("Free-form task description used to pick a backend (default: general)."),
		),
		mcp.WithString("database",
			mcp.Description("Backend name from list_available_databases. Overrides task-based routing when set."),
		),
	)
	srv.AddTool(runQueryTool, s.handleRunQuery)

	analyzeTool := mcp.NewTool("analyze_query_performance",
		mcp.WithDescription("Analyze query performance using EXPLAIN ANALYZE."),
		mcp.WithString("sql_query",
			mcp.Required(),
			mcp.Description("SQL statement to analyze."),
		),
		mcp.WithString("task_type",
			mcp.Description("Free-form task description used to pick a backend (default: analytics)."),
		),
		mcp.WithString("database",
			mcp.Description("Backend name from list_available_databases. Overrides task-based routing when set."),
		),
	)
	srv.AddTool(analyzeTool, s.handleAnalyzeQuery)

	marketSummaryTool := mcp.NewTool("get_market_data_summary",
		mcp.WithDescription("Get a summary of market data from the database. Routed to the time-series backend unless overridden."),
		mcp.WithString("start_date",
			mcp.Description("Inclusive lower bound on the timestamp column."),
		),
		mcp.WithString("end_date",
			mcp.Description("Inclusive upper bound on the timestamp column."),
		),
		mcp.WithString("database",
			mcp.Description("Backend name from list_available_databases. Overrides task-based routing when set."),
		),
	)
	srv.AddTool(marketSummaryTool, s.handleMarketSummary)

	listDatabasesTool := mcp.NewTool("list_available_databases",
		mcp.WithDescription("List all available database configurations that can be used with the database parameter."),
	)
	srv.AddTool(listDatabasesTool, s.handleListDatabases)
}

// begin logs the start of a tool invocation and returns the matching
// completion logger. Each invocation carries its own id so interleaved
// calls stay distinguishable.
func (s *Service) begin(tool string) func() {
	id := uuid.New()
	start := time.Now()
	s.logger.Debug("tool invoked", "tool", tool, "invocation_id", id)
	return func() {
		s.logger.Debug("tool completed",
			"tool", tool,
			"invocation_id", id,
			"duration", time.Since(start),
		)
	}
}

// jsonResult renders an envelope as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// connectError renders a session acquisition failure. An unknown explicit
// name keeps its detail; everything else collapses to the generic message
// clients match on.
func connectError(err error) string {
	var nf *router.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "Could not connect to database"
}
