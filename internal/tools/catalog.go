package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// databaseUsageHint tells clients how to steer any tool at a specific
// backend.
const databaseUsageHint = "Use the database name as the 'database' parameter in other tools (e.g., database='timescaledb')"

func (s *Service) handleListDatabases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("list_available_databases")()

	catalog := s.manager.Catalog()
	databases := make(map[string]any, catalog.Len())
	for _, name := range catalog.Names() {
		b, ok := catalog.Get(name)
		if !ok {
			continue
		}
		databases[name] = map[string]any{
			"database_type": stringOrUnknown(b.DBType),
			"host":          stringOrUnknown(b.Host),
			"port":          portOrUnknown(b.Port),
			"database":      stringOrUnknown(b.Database),
			"user":          stringOrUnknown(b.User),
		}
	}
	return jsonResult(map[string]any{
		"success":             true,
		"available_databases": databases,
		"total_count":         catalog.Len(),
		"usage":               databaseUsageHint,
	})
}

// stringOrUnknown substitutes the placeholder clients expect for fields the
// catalog document never set.
func stringOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func portOrUnknown(p int) any {
	if p == 0 {
		return "unknown"
	}
	return p
}
