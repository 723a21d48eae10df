package tools

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// summaryTables are the table names probed for a market data summary, in
// order of preference.
var summaryTables = []string{"market_data", "prices", "trading_data", "spot_prices"}

func (s *Service) handleMarketSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("get_market_data_summary")()

	startDate := request.GetString("start_date", "")
	endDate := request.GetString("end_date", "")
	explicit := request.GetString("database", "")

	sess, dbName, err := s.manager.Connect(ctx, "market_data", explicit)
	if err != nil {
		return jsonResult(map[string]any{"error": connectError(err)})
	}
	defer s.manager.Release(sess)

	where, params := summaryFilter(startDate, endDate)
	for _, table := range summaryTables {
		query := fmt.Sprintf(
			"SELECT COUNT(*), MIN(timestamp), MAX(timestamp), COUNT(DISTINCT DATE(timestamp)) FROM %s%s",
			table, where,
		)
		var (
			count, days      int64
			earliest, latest sql.NullTime
		)
		if err := sess.QueryRowContext(ctx, query, params...).Scan(&count, &earliest, &latest, &days); err != nil {
			s.logger.Debug("summary probe failed", "table", table, "error", err)
			continue
		}
		if count == 0 {
			continue
		}
		return jsonResult(map[string]any{
			"success":      true,
			"table_name":   table,
			"record_count": count,
			"date_range": map[string]any{
				"earliest":     nullTime(earliest),
				"latest":       nullTime(latest),
				"trading_days": days,
			},
			"database_type": dbName,
			"filters": map[string]any{
				"start_date": emptyAsNull(startDate),
				"end_date":   emptyAsNull(endDate),
			},
		})
	}
	return jsonResult(map[string]any{"error": "No market data tables found with the expected schema"})
}

// summaryFilter builds the optional timestamp bounds for summary probes.
func summaryFilter(startDate, endDate string) (string, []any) {
	var conditions []string
	var params []any
	if startDate != "" {
		params = append(params, startDate)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(params)))
	}
	if endDate != "" {
		params = append(params, endDate)
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(params)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), params
}
