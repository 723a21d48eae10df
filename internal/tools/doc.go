// Package tools implements the MCP tool surface of the gateway:
//
//   - get_server_status: process, system and per-backend connectivity report
//   - list_tables and get_table_info: postgres catalog introspection
//   - run_query: routed ad hoc SQL on a dedicated per-request session
//   - analyze_query_performance: EXPLAIN ANALYZE plan capture
//   - get_market_data_summary: probes the well-known time-series tables
//   - list_available_databases: the backend catalog, without credentials
//
// Backend trouble never fails the MCP call itself; it renders into the JSON
// envelope the client reads.
package tools
