package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads backend catalog documents. The document is YAML (JSON
// documents parse unchanged) with one top-level section per backend.
type Loader struct {
	logger *slog.Logger
	remote *remoteReader
}

// NewLoader returns a loader that logs through logger.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		logger: logger,
		remote: newRemoteReader(logger),
	}
}

// ResolvePath picks the catalog document path: an explicit flag value wins,
// then the TRADEGATE_DB_CONFIG environment variable, then the built-in
// default.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultConfigPath
}

// Load builds the backend catalog from the document at path. It never
// fails: an unreadable or unparseable document, or one naming no backends,
// yields the default catalog.
func (l *Loader) Load(path string) *Catalog {
	data, err := l.read(path)
	if err != nil {
		l.logger.Error("config load failed, falling back to default backend",
			"path", path, "error", err)
		return DefaultCatalog()
	}

	cat, err := l.parse(data)
	if err != nil {
		l.logger.Error("config parse failed, falling back to default backend",
			"path", path, "error", err)
		return DefaultCatalog()
	}
	if cat.Len() == 0 {
		l.logger.Warn("config names no backends, falling back to default backend",
			"path", path)
		return DefaultCatalog()
	}

	l.logger.Info("backend catalog loaded", "path", path, "backends", cat.Names())
	return cat
}

// read tries the filesystem first and falls back to the host shell bridge
// for paths on the known share host.
func (l *Loader) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !l.remote.matches(path) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	l.logger.Warn("direct config read failed, trying host shell bridge",
		"path", path, "error", err)
	data, rerr := l.remote.read(path)
	if rerr != nil {
		l.logger.Error("host shell read failed", "error", rerr)
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return data, nil
}

type section struct {
	name string
	node *yaml.Node
}

// parse decodes the document and registers backends: the canonical
// timescaledb and PostgreSQL sections first, then every other top-level
// mapping carrying a dbtype field, in document order. A malformed
// canonical section fails the whole parse; a malformed generic section is
// skipped.
func (l *Loader) parse(data []byte) (*Catalog, error) {
	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("parse config document: %w", err)
	}
	if len(doc.Content) == 0 {
		return NewCatalog(nil), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config document is not a mapping")
	}

	var sections []section
	for i := 0; i+1 < len(root.Content); i += 2 {
		sections = append(sections, section{
			name: root.Content[i].Value,
			node: root.Content[i+1],
		})
	}

	var backends []Backend
	for _, name := range []string{TimescaleName, PostgresName} {
		for _, s := range sections {
			if s.name != name {
				continue
			}
			b, err := decodeBackend(s.name, s.node)
			if err != nil {
				return nil, fmt.Errorf("decode %s entry: %w", s.name, err)
			}
			backends = append(backends, b)
			l.logger.Info("backend registered", "name", b.Name, "host", b.Host, "port", b.Port)
			break
		}
	}
	for _, s := range sections {
		if s.name == TimescaleName || s.name == PostgresName {
			continue
		}
		if !hasKey(s.node, "dbtype") {
			continue
		}
		b, err := decodeBackend(s.name, s.node)
		if err != nil {
			l.logger.Warn("skipping malformed backend entry", "name", s.name, "error", err)
			continue
		}
		backends = append(backends, b)
		l.logger.Info("backend registered", "name", b.Name, "host", b.Host, "port", b.Port)
	}

	return NewCatalog(backends), nil
}

func decodeBackend(name string, node *yaml.Node) (Backend, error) {
	var b Backend
	if err := node.Decode(&b); err != nil {
		return Backend{}, err
	}
	b.Name = name
	return b, nil
}

func hasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
