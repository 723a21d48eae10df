package router

import (
	"errors"
	"testing"

	"github.com/enerdata/tradegate/internal/config"
)

func fullCatalog() *config.Catalog {
	return config.NewCatalog([]config.Backend{
		{Name: config.TimescaleName, DBType: "timescaledb"},
		{Name: config.PostgresName, DBType: "postgre"},
		{Name: "oracle_fin", DBType: "oracle"},
	})
}

func TestResolveExplicit(t *testing.T) {
	cat := fullCatalog()

	for _, name := range cat.Names() {
		got, err := Resolve(name, "", cat)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", name, err)
			continue
		}
		if got != name {
			t.Errorf("Resolve(%q) = %q, want the explicit name back", name, got)
		}
	}
}

func TestResolveExplicitNotFound(t *testing.T) {
	cat := fullCatalog()

	_, err := Resolve("warehouse", "market_data", cat)
	if err == nil {
		t.Fatal("Resolve with unknown explicit name should fail")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %T, want *NotFoundError", err)
	}
	if nf.Name != "warehouse" {
		t.Errorf("NotFoundError.Name = %q, want %q", nf.Name, "warehouse")
	}
	if len(nf.Available) != 3 {
		t.Errorf("NotFoundError.Available = %v, want all catalog names", nf.Available)
	}
}

func TestResolveTimescaleKeywords(t *testing.T) {
	cat := fullCatalog()

	for _, task := range []string{
		"market_data", "time_series", "pricing", "forecast",
		"historical", "real_time", "analytics", "aggregation",
	} {
		t.Run(task, func(t *testing.T) {
			got, err := Resolve("", task, cat)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != config.TimescaleName {
				t.Errorf("Resolve(%q) = %q, want %q", task, got, config.TimescaleName)
			}
		})
	}
}

func TestResolvePostgresKeywords(t *testing.T) {
	cat := fullCatalog()

	for _, task := range []string{
		"schema", "tables", "metadata", "admin", "general", "config",
	} {
		t.Run(task, func(t *testing.T) {
			got, err := Resolve("", task, cat)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != config.PostgresName {
				t.Errorf("Resolve(%q) = %q, want %q", task, got, config.PostgresName)
			}
		})
	}
}

func TestResolveCategoryMatching(t *testing.T) {
	cat := fullCatalog()

	tests := []struct {
		name string
		task string
		want string
	}{
		{
			name: "substring match",
			task: "fetch_market_data_range",
			want: config.TimescaleName,
		},
		{
			name: "case insensitive",
			task: "Historical Pricing",
			want: config.TimescaleName,
		},
		{
			name: "both families prefers time series",
			task: "historical schema dump",
			want: config.TimescaleName,
		},
		{
			name: "no keyword falls back to time series",
			task: "miscellaneous",
			want: config.TimescaleName,
		},
		{
			name: "empty category falls back",
			task: "",
			want: config.TimescaleName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("", tt.task, cat)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.task, got, tt.want)
			}
		})
	}
}

func TestResolveFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		cat  *config.Catalog
		task string
		want string
	}{
		{
			name: "time series keyword without timescaledb",
			cat: config.NewCatalog([]config.Backend{
				{Name: config.PostgresName, DBType: "postgre"},
			}),
			task: "analytics",
			want: config.PostgresName,
		},
		{
			name: "time series keyword also matching general without timescaledb",
			cat: config.NewCatalog([]config.Backend{
				{Name: config.PostgresName, DBType: "postgre"},
			}),
			task: "historical tables",
			want: config.PostgresName,
		},
		{
			name: "general keyword without PostgreSQL",
			cat: config.NewCatalog([]config.Backend{
				{Name: config.TimescaleName, DBType: "timescaledb"},
			}),
			task: "schema",
			want: config.TimescaleName,
		},
		{
			name: "neither canonical uses first registered",
			cat: config.NewCatalog([]config.Backend{
				{Name: "reporting", DBType: "postgre"},
				{Name: "oracle_fin", DBType: "oracle"},
			}),
			task: "general",
			want: "reporting",
		},
		{
			name: "empty catalog uses default name",
			cat:  config.NewCatalog(nil),
			task: "general",
			want: config.DefaultName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("", tt.task, tt.cat)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.task, got, tt.want)
			}
		})
	}
}
