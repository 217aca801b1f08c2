package pkglog

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
)

// Binding ties a framework name to its adapters and instrumentation.
type Binding struct {
	Name            string
	Instrumentor    Instrumentor
	RequestAdapter  RequestAdapter
	ResponseAdapter ResponseAdapter
	// AppConfigurator is optional.
	AppConfigurator AppConfigurator
}

func (b Binding) validate() error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: framework name can not be empty", ErrInvalidBinding)
	case b.Instrumentor == nil:
		return fmt.Errorf("%w: %s: instrumentor is nil", ErrInvalidBinding, b.Name)
	case b.RequestAdapter == nil:
		return fmt.Errorf("%w: %s: request adapter is nil", ErrInvalidBinding, b.Name)
	case b.RequestAdapter.RequestType() == nil:
		return fmt.Errorf("%w: %s: request adapter has no request type", ErrInvalidBinding, b.Name)
	case b.ResponseAdapter == nil:
		return fmt.Errorf("%w: %s: response adapter is nil", ErrInvalidBinding, b.Name)
	}
	return nil
}

// Registry maps framework names to bindings. It is filled during startup and
// read afterwards.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	logger   *slog.Logger
}

// NewRegistry returns an empty registry. Re-registration warnings go to
// logger, or to slog.Default() when logger is nil.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{bindings: make(map[string]Binding), logger: logger}
}

//nolint:gochecknoglobals // process-wide registry filled by framework packages
var defaultRegistry = NewRegistry(nil)

// DefaultRegistry returns the process-wide registry framework packages
// register themselves into.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds b under its lower-cased name. Registering a name twice
// replaces the earlier binding and logs a warning.
func (r *Registry) Register(b Binding) error {
	if err := b.validate(); err != nil {
		return pkgerror.NewConfiguration(err)
	}

	b.Name = strings.ToLower(strings.TrimSpace(b.Name))

	r.mu.Lock()
	_, exists := r.bindings[b.Name]
	r.bindings[b.Name] = b
	r.mu.Unlock()

	if exists {
		r.log().Warn("re-register framework", "framework", b.Name)
	}
	return nil
}

// MustRegister is like Register but panics on error. Framework packages use
// it from init.
func (r *Registry) MustRegister(b Binding) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Select returns the binding registered under name.
func (r *Registry) Select(name string) (Binding, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	b, ok := r.bindings[key]
	r.mu.RUnlock()

	if !ok {
		return Binding{}, pkgerror.NewConfiguration(fmt.Errorf("%w: %q", ErrUnknownFramework, name))
	}
	return b, nil
}

// Names returns the registered framework names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Register adds b to the default registry.
func Register(b Binding) error {
	return defaultRegistry.Register(b)
}
