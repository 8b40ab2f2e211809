// Package plugin registers named renderer extensions. A plugin installs
// listeners on a renderer's event bus before a run; the CLI applies the
// whole registry to each renderer it builds.
package plugin

import (
	"log/slog"
	"sync"

	foundationerrors "git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/render"
)

// InstallFunc wires one plugin's listeners into a renderer.
type InstallFunc func(*render.Renderer) error

// Registry holds named plugins. Install order follows registration
// order so listener priority ties stay deterministic across runs.
type Registry struct {
	mu      sync.RWMutex
	install map[string]InstallFunc
	order   []string
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{install: make(map[string]InstallFunc)}
}

// Register adds a named plugin. Names are unique; registering the same
// name twice is an error.
func (r *Registry) Register(name string, fn InstallFunc) error {
	if name == "" {
		return foundationerrors.ThemeError("plugin name must not be empty").Build()
	}
	if fn == nil {
		return foundationerrors.ThemeError("plugin install function must not be nil").
			WithContext("plugin", name).
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.install[name]; exists {
		return foundationerrors.ThemeError("plugin already registered").
			WithContext("plugin", name).
			Build()
	}
	r.install[name] = fn
	r.order = append(r.order, name)
	return nil
}

// Apply installs every registered plugin on the renderer in registration
// order. The first failure aborts and names the plugin.
func (r *Registry) Apply(ren *render.Renderer) error {
	r.mu.RLock()
	names := append([]string(nil), r.order...)
	installs := make([]InstallFunc, len(names))
	for i, name := range names {
		installs[i] = r.install[name]
	}
	r.mu.RUnlock()

	for i, name := range names {
		if err := installs[i](ren); err != nil {
			return foundationerrors.WrapError(err, foundationerrors.CategoryTheme, "install plugin").
				WithContext("plugin", name).
				Build()
		}
		slog.Debug("Plugin installed", slog.String("plugin", name))
	}
	return nil
}

// Names returns the registered plugin names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Has reports whether a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.install[name]
	return ok
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// globalRegistry backs package-level registration so plugins can register
// from init code.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global plugin registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a plugin to the global registry.
func Register(name string, fn InstallFunc) error {
	return globalRegistry.Register(name, fn)
}
