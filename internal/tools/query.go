package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// explainPrefix wraps statements for plan capture on postgres-family
// backends.
const explainPrefix = "EXPLAIN (ANALYZE, BUFFERS, FORMAT JSON) "

func (s *Service) handleRunQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("run_query")()

	query, err := request.RequireString("sql_query")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'sql_query': %v", err)), nil
	}
	taskType := request.GetString("task_type", "general")
	explicit := request.GetString("database", "")

	sess, dbName, err := s.manager.Connect(ctx, taskType, explicit)
	if err != nil {
		return jsonResult(map[string]any{"error": connectError(err)})
	}
	defer s.manager.Release(sess)

	start := time.Now()
	if returnsRows(query) {
		rows, err := sess.QueryContext(ctx, query)
		if err != nil {
			return jsonResult(queryFailure(err, query))
		}
		defer rows.Close()
		data, err := scanRows(rows)
		if err != nil {
			return jsonResult(queryFailure(err, query))
		}
		return jsonResult(map[string]any{
			"success":                true,
			"data":                   data,
			"row_count":              len(data),
			"execution_time_seconds": time.Since(start).Seconds(),
			"database_type":          dbName,
			"query":                  truncateQuery(query),
		})
	}

	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		return jsonResult(queryFailure(err, query))
	}
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
		return jsonResult(queryFailure(err, query))
	}
	if err := tx.Commit(); err != nil {
		return jsonResult(queryFailure(err, query))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return jsonResult(map[string]any{
		"success":                true,
		"rows_affected":          affected,
		"execution_time_seconds": time.Since(start).Seconds(),
		"database_type":          dbName,
		"query":                  truncateQuery(query),
	})
}

func (s *Service) handleAnalyzeQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("analyze_query_performance")()

	query, err := request.RequireString("sql_query")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'sql_query': %v", err)), nil
	}
	taskType := request.GetString("task_type", "analytics")
	explicit := request.GetString("database", "")

	sess, dbName, err := s.manager.Connect(ctx, taskType, explicit)
	if err != nil {
		return jsonResult(map[string]any{"error": connectError(err)})
	}
	defer s.manager.Release(sess)

	var plan []byte
	if err := sess.QueryRowContext(ctx, explainPrefix+query).Scan(&plan); err != nil {
		return jsonResult(queryFailure(err, query))
	}
	return jsonResult(map[string]any{
		"success":        true,
		"explain_result": json.RawMessage(plan),
		"database_type":  dbName,
		"original_query": truncateQuery(query),
	})
}

// queryFailure is the envelope every failed statement renders to.
func queryFailure(err error, query string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   err.Error(),
		"query":   truncateQuery(query),
	}
}
