// Package router resolves which backend serves a request.
//
// Resolution order:
//  1. An explicit backend name, which must exist in the catalog.
//  2. Keyword match on the task category: time-series keywords first,
//     then general ones.
//  3. Fallback through timescaledb, PostgreSQL, the first registered
//     backend, and finally the built-in default name.
//
// Without an explicit name, resolution never fails.
package router

import (
	"fmt"
	"strings"

	"github.com/enerdata/tradegate/internal/config"
)

// Keyword sets matched case-insensitively as substrings of the task
// category. A category matching both families lands on the time-series
// store.
var (
	timescaleKeywords = []string{
		"market_data", "time_series", "pricing", "forecast",
		"historical", "real_time", "analytics", "aggregation",
	}
	postgresKeywords = []string{
		"schema", "tables", "metadata", "admin", "general", "config",
	}
)

// NotFoundError reports an explicitly requested backend that the catalog
// does not carry.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("database %q not found, available: %s",
		e.Name, strings.Join(e.Available, ", "))
}

// Resolve picks the backend name serving a request. The explicit name wins
// when given; otherwise the task category decides. A keyword match only
// routes to its canonical backend when the catalog carries it, so a
// depleted catalog degrades through the fallback chain instead of failing.
func Resolve(explicit, taskCategory string, cat *config.Catalog) (string, error) {
	if explicit != "" {
		if cat.Has(explicit) {
			return explicit, nil
		}
		return "", &NotFoundError{Name: explicit, Available: cat.Names()}
	}

	task := strings.ToLower(taskCategory)

	if matchesAny(task, timescaleKeywords) && cat.Has(config.TimescaleName) {
		return config.TimescaleName, nil
	}
	if matchesAny(task, postgresKeywords) && cat.Has(config.PostgresName) {
		return config.PostgresName, nil
	}

	if cat.Has(config.TimescaleName) {
		return config.TimescaleName, nil
	}
	if cat.Has(config.PostgresName) {
		return config.PostgresName, nil
	}
	if names := cat.Names(); len(names) > 0 {
		return names[0], nil
	}
	return config.DefaultName, nil
}

func matchesAny(task string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(task, kw) {
			return true
		}
	}
	return false
}
