package module

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegisterFunc initializes a module against the shared context and returns
// its manifest. It is invoked exactly once per process. Returning a nil
// manifest with a nil error is allowed and yields a defaulted manifest.
type RegisterFunc func(ctx *Context) (*Manifest, error)

// Registry holds module register functions in registration order.
type Registry struct {
	names []string
	funcs map[string]RegisterFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]RegisterFunc)}
}

// Default is the process-wide registry modules register into from init().
var Default = NewRegistry()

// Register adds a module under name. Registering the same name twice
// panics: two modules competing for one name is a programming error.
func (r *Registry) Register(name string, fn RegisterFunc) {
	if name == "" || fn == nil {
		panic("module: Register requires a name and a function")
	}
	if _, exists := r.funcs[name]; exists {
		panic(fmt.Sprintf("module: %q already registered", name))
	}
	r.names = append(r.names, name)
	r.funcs[name] = fn
}

// Register adds a module to the default registry.
func Register(name string, fn RegisterFunc) {
	Default.Register(name, fn)
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Settings controls which modules load and where they mount. Loaded from
// an optional modules.yaml; an absent file enables everything.
type Settings struct {
	Modules map[string]ModuleSettings `yaml:"modules"`
}

// ModuleSettings is the per-module configuration block.
type ModuleSettings struct {
	Enabled  *bool  `yaml:"enabled"`
	BasePath string `yaml:"base_path"`
}

// enabled reports whether a module should load. Missing entries default
// to enabled.
func (s *Settings) enabled(name string) bool {
	if s == nil || s.Modules == nil {
		return true
	}
	ms, ok := s.Modules[name]
	if !ok || ms.Enabled == nil {
		return true
	}
	return *ms.Enabled
}

func (s *Settings) basePath(name string) string {
	if s == nil || s.Modules == nil {
		return ""
	}
	return s.Modules[name].BasePath
}

// LoadSettings reads modules.yaml from path. A missing file is not an
// error: it returns nil settings, which enable every module.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read module settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse module settings: %w", err)
	}
	return &s, nil
}

// Load initializes every enabled module in registration order and returns
// their normalized manifests. Loading is strictly sequential: a module's
// registration completes (or fails) before the next begins, so later
// modules may read container entries earlier ones published.
//
// A module that returns an error or panics is logged and omitted; the
// remaining modules still load. An empty registry yields an empty slice.
func (r *Registry) Load(ctx *Context, settings *Settings) []*Manifest {
	logger := ctx.logger()
	manifests := make([]*Manifest, 0, len(r.names))

	for _, name := range r.names {
		if !settings.enabled(name) {
			continue
		}

		manifest, err := r.loadOne(name, ctx)
		if err != nil {
			logger.Printf("module %s: registration failed: %v", name, err)
			continue
		}

		manifest = manifest.Normalize(name)
		if bp := settings.basePath(name); bp != "" {
			manifest.BasePath = bp
		}

		// Publish the module's public API for later modules.
		ctx.Container.Set(PublicAPIKey(manifest.Name), manifest.PublicAPI)

		manifests = append(manifests, manifest)
	}

	return manifests
}

// loadOne invokes a single register function, converting panics to errors
// so one broken module cannot abort startup.
func (r *Registry) loadOne(name string, ctx *Context) (m *Manifest, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return r.funcs[name](ctx)
}
