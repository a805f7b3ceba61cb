package schema

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics counts cache traffic. Construct with NewCacheMetrics to
// register the counters; a nil *CacheMetrics disables instrumentation.
type CacheMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
	Builds prometheus.Counter
}

// NewCacheMetrics creates the counter set and registers it with reg when reg
// is non-nil.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parsekit",
			Subsystem: "schema_cache",
			Name:      "hits_total",
			Help:      "Number of schema lookups served from the compiled-parser cache.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parsekit",
			Subsystem: "schema_cache",
			Name:      "misses_total",
			Help:      "Number of schema lookups that required compilation.",
		}),
		Builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parsekit",
			Subsystem: "schema_cache",
			Name:      "builds_total",
			Help:      "Number of successful schema compilations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Builds)
	}
	return m
}

// Cache memoizes compiled parsers per schema identity (*Schema pointer).
// Safe for concurrent use. Compilation runs outside the lock, so two
// goroutines racing on the same cold schema may both build; the first stored
// result wins and is what every later lookup sees.
type Cache struct {
	mu      sync.Mutex
	entries map[*Schema]*compiled
	metrics *CacheMetrics
}

// CacheOption configures a Cache at construction.
type CacheOption func(*Cache)

// WithMetrics attaches cache traffic counters.
func WithMetrics(m *CacheMetrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// NewCache returns an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{entries: make(map[*Schema]*compiled)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultCache backs the package-level Parse, ParsePartial and Format entry
// points.
var DefaultCache = NewCache()

func (c *Cache) lookupOrBuild(s *Schema) (*compiled, error) {
	c.mu.Lock()
	entry := c.entries[s]
	c.mu.Unlock()
	if entry != nil {
		if c.metrics != nil {
			c.metrics.Hits.Inc()
		}
		return entry, nil
	}
	if c.metrics != nil {
		c.metrics.Misses.Inc()
	}
	built, err := build(c, s)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.Builds.Inc()
	}
	c.mu.Lock()
	if prior, ok := c.entries[s]; ok {
		built = prior
	} else {
		c.entries[s] = built
	}
	c.mu.Unlock()
	return built, nil
}

// Clear evicts one schema's compiled parser; the next use recompiles.
func (c *Cache) Clear(s *Schema) {
	c.mu.Lock()
	delete(c.entries, s)
	c.mu.Unlock()
}

// ClearAll empties the cache.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[*Schema]*compiled)
	c.mu.Unlock()
}

// Len reports the number of cached schemas.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
