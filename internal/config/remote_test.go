package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestWindowsPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "double slash share path",
			in:   "//192.168.10.91/trading/db_config.json",
			want: `\\192.168.10.91\trading\db_config.json`,
		},
		{
			name: "mnt share path",
			in:   "/mnt/192.168.10.91/trading/db_config.json",
			want: `\\192.168.10.91\trading\db_config.json`,
		},
		{
			name: "other path unchanged",
			in:   "C:/configs/db_config.json",
			want: "C:/configs/db_config.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := windowsPath(tt.in); got != tt.want {
				t.Errorf("windowsPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadRemoteFallback(t *testing.T) {
	l := newTestLoader(t)

	var gotName string
	var gotArgs []string
	l.remote.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		doc := `{"timescaledb": {"dbtype": "timescaledb", "host": "ts", "port": 5432}}`
		return []byte(doc + "\n"), nil
	}

	cat := l.Load("//192.168.10.91/trading/db_config.json")

	if gotName != "powershell.exe" {
		t.Errorf("runner command = %q, want powershell.exe", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, `\\192.168.10.91\trading\db_config.json`) {
		t.Errorf("runner args = %q, want converted UNC path", joined)
	}
	if !cat.Has("timescaledb") {
		t.Fatalf("catalog = %v, want timescaledb entry", cat.Names())
	}
}

func TestLoadRemoteFallbackOnlyForKnownHost(t *testing.T) {
	l := newTestLoader(t)

	called := false
	l.remote.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		called = true
		return nil, errors.New("should not run")
	}

	cat := l.Load(filepath.Join(t.TempDir(), "local.yaml"))

	if called {
		t.Error("host shell bridge ran for a path off the share host")
	}
	assertDefaultCatalog(t, cat)
}

func TestLoadRemoteFallbackFailureUsesDefault(t *testing.T) {
	l := newTestLoader(t)
	l.remote.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("access denied")
	}

	cat := l.Load("/mnt/192.168.10.91/trading/db_config.json")

	assertDefaultCatalog(t, cat)
}
