package tools

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// listTablesQuery enumerates user tables; system schemas stay hidden.
const listTablesQuery = `
SELECT schemaname, tablename, tableowner, hasindexes, hasrules, hastriggers
FROM pg_tables
WHERE schemaname NOT IN ('information_schema', 'pg_catalog')
ORDER BY schemaname, tablename`

// tableColumnsQuery describes a table's columns in declaration order.
const tableColumnsQuery = `
SELECT column_name, data_type, is_nullable, column_default,
       character_maximum_length, numeric_precision, numeric_scale
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

func (s *Service) handleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("list_tables")()

	explicit := request.GetString("database", "")
	sess, _, err := s.manager.Connect(ctx, "schema", explicit)
	if err != nil {
		return jsonResult([]map[string]any{{"error": connectError(err)}})
	}
	defer s.manager.Release(sess)

	rows, err := sess.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return jsonResult([]map[string]any{{"error": err.Error()}})
	}
	defer rows.Close()

	type tableRow struct {
		schema, table, owner              string
		hasIndexes, hasRules, hasTriggers bool
	}
	var scanned []tableRow
	for rows.Next() {
		var t tableRow
		if err := rows.Scan(&t.schema, &t.table, &t.owner, &t.hasIndexes, &t.hasRules, &t.hasTriggers); err != nil {
			return jsonResult([]map[string]any{{"error": err.Error()}})
		}
		scanned = append(scanned, t)
	}
	if err := rows.Err(); err != nil {
		return jsonResult([]map[string]any{{"error": err.Error()}})
	}

	// Counts only start once the listing is fully drained; the session has
	// a single underlying connection.
	tables := make([]map[string]any, 0, len(scanned))
	for _, t := range scanned {
		info := map[string]any{
			"schema":       t.schema,
			"table":        t.table,
			"owner":        t.owner,
			"has_indexes":  t.hasIndexes,
			"has_rules":    t.hasRules,
			"has_triggers": t.hasTriggers,
			"full_name":    t.schema + "." + t.table,
		}
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", quoteIdent(t.schema), quoteIdent(t.table))
		var count int64
		if err := sess.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
			info["row_count"] = "unknown"
		} else {
			info["row_count"] = count
		}
		tables = append(tables, info)
	}
	return jsonResult(tables)
}

func (s *Service) handleTableInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("get_table_info")()

	tableName, err := request.RequireString("table_name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing required parameter 'table_name': %v", err)), nil
	}
	schemaName := request.GetString("schema_name", "public")
	explicit := request.GetString("database", "")

	sess, dbName, err := s.manager.Connect(ctx, "schema", explicit)
	if err != nil {
		return jsonResult(map[string]any{"error": connectError(err)})
	}
	defer s.manager.Release(sess)

	rows, err := sess.QueryContext(ctx, tableColumnsQuery, schemaName, tableName)
	if err != nil {
		return jsonResult(map[string]any{"error": err.Error()})
	}
	defer rows.Close()

	columns := []map[string]any{}
	for rows.Next() {
		var (
			name, dataType, nullable    string
			colDefault                  sql.NullString
			maxLength, precision, scale sql.NullInt64
		)
		if err := rows.Scan(&name, &dataType, &nullable, &colDefault, &maxLength, &precision, &scale); err != nil {
			return jsonResult(map[string]any{"error": err.Error()})
		}
		column := map[string]any{
			"name":     name,
			"type":     dataType,
			"nullable": nullable == "YES",
			"default":  nullString(colDefault),
		}
		if maxLength.Valid && maxLength.Int64 != 0 {
			column["max_length"] = maxLength.Int64
		}
		if precision.Valid && precision.Int64 != 0 {
			column["precision"] = precision.Int64
		}
		if scale.Valid && scale.Int64 != 0 {
			column["scale"] = scale.Int64
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return jsonResult(map[string]any{"error": err.Error()})
	}
	if len(columns) == 0 {
		return jsonResult(map[string]any{"error": fmt.Sprintf("Table %s.%s not found", schemaName, tableName)})
	}

	target := quoteIdent(schemaName) + "." + quoteIdent(tableName)
	sampleRows, err := sess.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 5", target))
	if err != nil {
		return jsonResult(map[string]any{"error": err.Error()})
	}
	defer sampleRows.Close()
	sample, err := scanRows(sampleRows)
	if err != nil {
		return jsonResult(map[string]any{"error": err.Error()})
	}

	var rowCount int64
	if err := sess.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", target)).Scan(&rowCount); err != nil {
		return jsonResult(map[string]any{"error": err.Error()})
	}

	return jsonResult(map[string]any{
		"schema":        schemaName,
		"table":         tableName,
		"columns":       columns,
		"row_count":     rowCount,
		"sample_data":   sample,
		"database_type": dbName,
	})
}
