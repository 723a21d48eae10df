package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/enerdata/tradegate/internal/database"
	"github.com/enerdata/tradegate/internal/sysinfo"
)

// serverType identifies this service in status envelopes.
const serverType = "Energy Trading Database MCP Server"

func (s *Service) handleServerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defer s.begin("get_server_status")()

	catalog := s.manager.Catalog()
	status := map[string]any{
		"status":              "running",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"server_type":         serverType,
		"available_databases": catalog.Names(),
	}

	if snap, err := sysinfo.Collect(ctx); err != nil {
		s.logger.Warn("system probe failed", "error", err)
		status["system"] = map[string]any{"error": fmt.Sprintf("Could not get system info: %v", err)}
	} else {
		status["system"] = snap
	}

	connectivity := make(map[string]any, catalog.Len())
	for _, name := range catalog.Names() {
		connectivity[name] = s.probeBackend(ctx, name)
	}
	status["database_connectivity"] = connectivity

	return jsonResult(status)
}

// probeBackend checks a session out of the named backend and runs the
// smallest round trip its kind supports.
func (s *Service) probeBackend(ctx context.Context, name string) map[string]any {
	sess, err := s.manager.Acquire(ctx, name)
	if err != nil {
		return map[string]any{"status": "failed", "error": "No connection"}
	}
	defer s.manager.Release(sess)

	probe := "SELECT 1"
	if b, ok := s.manager.Catalog().Get(name); ok && database.KindOf(b.DBType) == database.KindOracle {
		probe = "SELECT 1 FROM DUAL"
	}

	var one int
	if err := sess.QueryRowContext(ctx, probe).Scan(&one); err != nil {
		return map[string]any{"status": "error", "error": err.Error()}
	}
	result := "passed"
	if one != 1 {
		result = "failed"
	}
	return map[string]any{"status": "connected", "test_query": result}
}
