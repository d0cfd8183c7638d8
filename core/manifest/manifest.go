// Package manifest loads the route manifest: a TOML file mapping routes, shells, composites
// and guards to controller keys.
//
//	start_route = "/app/list"
//	error_route = "/app/error"
//
//	[[shell]]
//	id  = "app"
//	key = "app-shell"
//
//	[[controller]]
//	key    = "person-detail"
//	routes = ["/app/person/*"]
//
//	  [[controller.composite]]
//	  name  = "toolbar"
//	  key   = "toolbar"
//	  scope = "global"
//
//	[[guard]]
//	pattern    = "/app/person/*"
//	expression = 'params[0] != "0"'
//	redirect   = "/app/list"
//
// The controllers themselves are registered in code through a controller.Factory; the
// manifest only refers to them by key.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/navigation"
)

// ErrInvalidManifest is returned for manifests that fail to decode or validate.
var ErrInvalidManifest = errors.New("invalid route manifest")

// Manifest is the decoded route manifest.
type Manifest struct {
	StartRoute  string       `toml:"start_route"`
	ErrorRoute  string       `toml:"error_route"`
	Shells      []Shell      `toml:"shell"`
	Controllers []Controller `toml:"controller"`
	Guards      []Guard      `toml:"guard"`
}

// Shell maps a shell id to the controller displayed around its routes.
type Shell struct {
	ID  string `toml:"id"`
	Key string `toml:"key"`
}

// Controller lists the routes and composites of a controller key. A controller without
// routes only declares composites, which is how nested composites are described.
type Controller struct {
	Key        string      `toml:"key"`
	Routes     []string    `toml:"routes"`
	Composites []Composite `toml:"composite"`
}

// Composite declares a named composite of a controller.
type Composite struct {
	Name  string `toml:"name"`
	Key   string `toml:"key"`
	Scope string `toml:"scope"`
}

// Guard declares an expression filter. See navigation.Guard.
type Guard struct {
	Pattern    string `toml:"pattern"`
	Expression string `toml:"expression"`
	Redirect   string `toml:"redirect"`
}

// Registrar receives the manifest entries. navigation.Router implements it.
type Registrar interface {
	Register(pattern, key string) error
	RegisterShell(shellID, key string) error
	Declare(parentKey string, decls ...controller.CompositeDecl) error
	Use(filters ...navigation.Filter)
}

// Load decodes and validates a manifest.
func Load(r io.Reader) (*Manifest, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, errors.Join(ErrInvalidManifest, err)
	}
	return finish(&m, md)
}

// LoadFile decodes and validates the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, errors.Join(ErrInvalidManifest, fmt.Errorf("%s: %w", path, err))
	}
	return finish(&m, md)
}

func finish(m *Manifest, md toml.MetaData) (*Manifest, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidManifest, strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks required fields, duplicate routes and composite scopes.
func (m *Manifest) Validate() error {
	var errs []error
	seen := map[string]string{}

	for i, s := range m.Shells {
		if s.ID == "" || s.Key == "" {
			errs = append(errs, fmt.Errorf("shell[%d]: id and key are required", i))
		}
	}
	for i, c := range m.Controllers {
		if c.Key == "" {
			errs = append(errs, fmt.Errorf("controller[%d]: key is required", i))
			continue
		}
		for _, r := range c.Routes {
			if prev, ok := seen[r]; ok {
				errs = append(errs, fmt.Errorf("controller %q: route %q already used by %q", c.Key, r, prev))
				continue
			}
			seen[r] = c.Key
		}
		for j, comp := range c.Composites {
			if comp.Name == "" || comp.Key == "" {
				errs = append(errs, fmt.Errorf("controller %q composite[%d]: name and key are required", c.Key, j))
			}
			if _, err := controller.ParseScope(comp.Scope); err != nil {
				errs = append(errs, fmt.Errorf("controller %q composite %q: %w", c.Key, comp.Name, err))
			}
		}
	}
	for i, g := range m.Guards {
		if g.Expression == "" {
			errs = append(errs, fmt.Errorf("guard[%d]: expression is required", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidManifest}, errs...)...)
	}
	return nil
}

// Configure copies the start and error routes into cfg when they are set.
func (m *Manifest) Configure(cfg *navigation.Config) {
	if m.StartRoute != "" {
		cfg.StartRoute = m.StartRoute
	}
	if m.ErrorRoute != "" {
		cfg.ErrorRoute = m.ErrorRoute
	}
}

// Routes returns every route pattern in declaration order.
func (m *Manifest) Routes() []string {
	var out []string
	for _, c := range m.Controllers {
		out = append(out, c.Routes...)
	}
	return slices.Clip(out)
}

// Apply registers shells, routes, composites and guards. Composites are declared before
// routes so a failing declaration leaves no route registered for it.
func (m *Manifest) Apply(r Registrar) error {
	for _, c := range m.Controllers {
		if len(c.Composites) == 0 {
			continue
		}
		decls := make([]controller.CompositeDecl, 0, len(c.Composites))
		for _, comp := range c.Composites {
			scope, err := controller.ParseScope(comp.Scope)
			if err != nil {
				return err
			}
			decls = append(decls, controller.CompositeDecl{Name: comp.Name, Key: comp.Key, Scope: scope})
		}
		if err := r.Declare(c.Key, decls...); err != nil {
			return fmt.Errorf("declare composites of %q: %w", c.Key, err)
		}
	}

	for _, s := range m.Shells {
		if err := r.RegisterShell(s.ID, s.Key); err != nil {
			return fmt.Errorf("register shell %q: %w", s.ID, err)
		}
	}

	for _, c := range m.Controllers {
		for _, pattern := range c.Routes {
			if err := r.Register(pattern, c.Key); err != nil {
				return fmt.Errorf("register route %q: %w", pattern, err)
			}
		}
	}

	for _, g := range m.Guards {
		guard, err := navigation.NewGuard(g.Pattern, g.Expression, g.Redirect)
		if err != nil {
			return err
		}
		r.Use(guard)
	}
	return nil
}
