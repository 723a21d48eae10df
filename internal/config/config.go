package config

// Backend describes one named database backend from the catalog document.
// Entries are registered exactly as found; a backend with missing or odd
// fields surfaces as a connection failure when first used, not as a load
// error.
type Backend struct {
	Name     string `yaml:"-"`
	DBType   string `yaml:"dbtype"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`

	// Optional tuning fields. Zero values mean package defaults.
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Catalog is the set of named backends loaded at startup. Iteration order
// matches registration order, which routing relies on for its final
// fallback. A catalog is immutable once built.
type Catalog struct {
	names    []string
	backends map[string]Backend
}

// NewCatalog builds a catalog from backends in slice order, keyed by
// Backend.Name. A name that appears twice keeps its first entry.
func NewCatalog(backends []Backend) *Catalog {
	c := &Catalog{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		if _, ok := c.backends[b.Name]; ok {
			continue
		}
		c.names = append(c.names, b.Name)
		c.backends[b.Name] = b
	}
	return c
}

// Get returns the backend registered under name.
func (c *Catalog) Get(name string) (Backend, bool) {
	b, ok := c.backends[name]
	return b, ok
}

// Has reports whether a backend is registered under name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.backends[name]
	return ok
}

// Names returns the backend names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of registered backends.
func (c *Catalog) Len() int {
	return len(c.names)
}

// DefaultCatalog returns the single-entry catalog used when no document
// could be loaded.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Backend{DefaultBackend()})
}
