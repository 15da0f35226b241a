package atom

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/logger"
	"github.com/ajitpratap0/nebula-atom/pkg/metrics"
)

// TypeRegistry interns atom types by name so that every atom of a column
// shares one *AtomType. It is safe for concurrent use.
type TypeRegistry struct {
	mu     sync.RWMutex
	types  map[string]*AtomType
	hits   int64
	misses int64
	logger *zap.Logger
}

// NewTypeRegistry creates an empty registry. A nil logger disables logging.
func NewTypeRegistry(l *zap.Logger) *TypeRegistry {
	return &TypeRegistry{
		types:  make(map[string]*AtomType),
		logger: logger.OrNop(l),
	}
}

// Intern returns the registered type for name, registering it first if needed
func (r *TypeRegistry) Intern(name string) *AtomType {
	// Fast path: already interned
	r.mu.RLock()
	if t, ok := r.types[name]; ok {
		r.mu.RUnlock()
		r.hit()
		return t
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if t, ok := r.types[name]; ok {
		r.hit()
		return t
	}

	t := NewAtomType(name)
	r.types[name] = t
	r.miss()
	metrics.TypesInterned.Inc()
	r.logger.Debug("atom type interned", zap.String("name", name), zap.Int("types", len(r.types)))
	return t
}

// InternType returns the registered type equal to t, registering t itself
// when its name is new. It returns nil for a nil type.
func (r *TypeRegistry) InternType(t *AtomType) *AtomType {
	if t == nil {
		return nil
	}

	r.mu.RLock()
	if existing, ok := r.types[t.name]; ok {
		r.mu.RUnlock()
		r.hit()
		return existing
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[t.name]; ok {
		r.hit()
		return existing
	}
	r.types[t.name] = t
	r.miss()
	metrics.TypesInterned.Inc()
	r.logger.Debug("atom type interned", zap.String("name", t.name), zap.Int("types", len(r.types)))
	return t
}

// InternAtom returns a copy of a whose type is the registry's shared type.
// The copy keeps a's index and content.
func (r *TypeRegistry) InternAtom(a *Atom) *Atom {
	if a == nil {
		return nil
	}
	shared := r.InternType(a.typ)
	if shared == a.typ {
		return a
	}
	return &Atom{
		typ:        shared,
		index:      a.index,
		content:    a.content,
		hasContent: a.hasContent,
	}
}

// Lookup returns the registered type for name
func (r *TypeRegistry) Lookup(name string) (*AtomType, bool) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()

	if ok {
		r.hit()
	} else {
		r.miss()
	}
	return t, ok
}

// Names returns the registered names in ascending order
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of registered types
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Stats returns the registry size and its hit/miss counts
func (r *TypeRegistry) Stats() (size, hits, misses int64) {
	return int64(r.Len()), atomic.LoadInt64(&r.hits), atomic.LoadInt64(&r.misses)
}

func (r *TypeRegistry) hit() {
	atomic.AddInt64(&r.hits, 1)
	metrics.RegistryLookups.WithLabelValues("hit").Inc()
}

func (r *TypeRegistry) miss() {
	atomic.AddInt64(&r.misses, 1)
	metrics.RegistryLookups.WithLabelValues("miss").Inc()
}
