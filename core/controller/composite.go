package controller

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ErrCompositeCycle is returned when a declaration would make a composite contain itself.
var ErrCompositeCycle = errors.New("composite declaration cycle")

// Scope controls the lifetime of a composite.
type Scope int

const (
	// ScopeLocal composites live and die with the owning controller instance.
	ScopeLocal Scope = iota
	// ScopeGlobal composites are created once and shared by every parent that declares them.
	ScopeGlobal
)

// String returns the scope name.
func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// ParseScope converts "local" or "global" into a Scope. An empty string is local.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "local":
		return ScopeLocal, nil
	case "global":
		return ScopeGlobal, nil
	default:
		return ScopeLocal, fmt.Errorf("unknown composite scope %q", s)
	}
}

// CompositeDecl declares a named composite slot of a parent.
type CompositeDecl struct {
	Name  string
	Key   string
	Scope Scope
}

// CompositeEntry is a live composite.
type CompositeEntry struct {
	// ID identifies the live instance. Nested local composites are owned by this ID.
	ID        string
	Name      string
	Key       string
	Scope     Scope
	Instance  any
	Component Component
	// ParentKey is the key of the controller or composite that declared it.
	ParentKey string
	// OwnerID is the entry ID of the owning instance. Empty for globals.
	OwnerID string
}

// Composites tracks composite declarations and their live instances.
type Composites struct {
	factory *Factory
	deps    Dependencies
	decls   map[string][]CompositeDecl
	local   map[string][]*CompositeEntry
	global  map[string]*CompositeEntry
}

// NewComposites creates a registry that constructs composites through factory.
func NewComposites(factory *Factory, deps Dependencies) *Composites {
	return &Composites{
		factory: factory,
		deps:    deps,
		decls:   make(map[string][]CompositeDecl),
		local:   make(map[string][]*CompositeEntry),
		global:  make(map[string]*CompositeEntry),
	}
}

// SetDependencies replaces the dependencies injected into new composites.
func (c *Composites) SetDependencies(deps Dependencies) {
	c.deps = deps
}

// Declare adds composite declarations to parentKey in order.
func (c *Composites) Declare(parentKey string, decls ...CompositeDecl) error {
	for _, d := range decls {
		if d.Name == "" || d.Key == "" {
			return fmt.Errorf("%w: composite of %q needs a name and a key", ErrInvalidDefinition, parentKey)
		}
		for _, existing := range c.decls[parentKey] {
			if existing.Name == d.Name {
				return fmt.Errorf("%w: %q in %q", ErrDuplicateComposite, d.Name, parentKey)
			}
		}
		if d.Key == parentKey || c.reaches(d.Key, parentKey, map[string]bool{}) {
			return fmt.Errorf("%w: %q -> %q", ErrCompositeCycle, parentKey, d.Key)
		}
		if d.Scope == ScopeGlobal {
			if err := c.checkGlobal(d); err != nil {
				return err
			}
		}
		c.decls[parentKey] = append(c.decls[parentKey], d)
	}
	return nil
}

// Declared returns the declarations of parentKey in declaration order.
func (c *Composites) Declared(parentKey string) []CompositeDecl {
	return slices.Clone(c.decls[parentKey])
}

// GetOrCreate returns the composite name declared by parentKey for the instance ownerID.
// Local composites are created once per owner, globals once per registry.
// The boolean result reports whether the instance was created by this call.
func (c *Composites) GetOrCreate(parentKey, ownerID, name string, scope Scope) (*CompositeEntry, bool, error) {
	decl, ok := c.lookup(parentKey, name, scope)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s composite %q in %q", ErrCompositeNotFound, scope, name, parentKey)
	}
	if !c.factory.Has(decl.Key) {
		return nil, false, fmt.Errorf("%w: %q in %q has no definition %q", ErrCompositeNotFound, name, parentKey, decl.Key)
	}

	if scope == ScopeGlobal {
		if e, ok := c.global[name]; ok {
			return e, false, nil
		}
	} else {
		for _, e := range c.local[ownerID] {
			if e.Name == name && e.ParentKey == parentKey {
				return e, false, nil
			}
		}
	}

	instance, err := c.factory.Create(decl.Key)
	if err != nil {
		return nil, false, err
	}
	wire(instance, c.deps, decl.Key)

	comp, err := c.factory.CreateComponent(decl.Key, instance)
	if err != nil {
		return nil, false, err
	}
	if ca, ok := instance.(ComponentAware); ok && comp != nil {
		ca.SetComponent(comp)
	}

	e := &CompositeEntry{
		ID:        uuid.New().String(),
		Name:      name,
		Key:       decl.Key,
		Scope:     scope,
		Instance:  instance,
		Component: comp,
		ParentKey: parentKey,
	}
	if scope == ScopeGlobal {
		c.global[name] = e
	} else {
		e.OwnerID = ownerID
		c.local[ownerID] = append(c.local[ownerID], e)
	}
	return e, true, nil
}

// Locals returns the local composites owned by ownerID in creation order.
func (c *Composites) Locals(ownerID string) []*CompositeEntry {
	return slices.Clone(c.local[ownerID])
}

// Global returns the global composite registered under name.
func (c *Composites) Global(name string) (*CompositeEntry, bool) {
	e, ok := c.global[name]
	return e, ok
}

// Destroy drops the local composites owned by ownerID, nested ones included,
// and returns them in creation order. Removable instances are told.
func (c *Composites) Destroy(ownerID string) []*CompositeEntry {
	owned := c.local[ownerID]
	delete(c.local, ownerID)

	var destroyed []*CompositeEntry
	for _, e := range owned {
		destroyed = append(destroyed, e)
		destroyed = append(destroyed, c.Destroy(e.ID)...)
		if r, ok := e.Instance.(Removable); ok {
			r.Remove()
		}
	}
	return destroyed
}

// Discard drops a single composite together with its nested locals. It is used to undo a
// creation made by a navigation that did not commit.
func (c *Composites) Discard(e *CompositeEntry) {
	if e == nil {
		return
	}
	switch e.Scope {
	case ScopeGlobal:
		if cur, ok := c.global[e.Name]; !ok || cur != e {
			return
		}
		delete(c.global, e.Name)
	default:
		owned := c.local[e.OwnerID]
		i := slices.Index(owned, e)
		if i < 0 {
			return
		}
		owned = slices.Delete(owned, i, i+1)
		if len(owned) == 0 {
			delete(c.local, e.OwnerID)
		} else {
			c.local[e.OwnerID] = owned
		}
	}
	c.Destroy(e.ID)
	if r, ok := e.Instance.(Removable); ok {
		r.Remove()
	}
}

func (c *Composites) lookup(parentKey, name string, scope Scope) (CompositeDecl, bool) {
	for _, d := range c.decls[parentKey] {
		if d.Name == name && d.Scope == scope {
			return d, true
		}
	}
	return CompositeDecl{}, false
}

func (c *Composites) checkGlobal(d CompositeDecl) error {
	for parent, decls := range c.decls {
		for _, existing := range decls {
			if existing.Scope == ScopeGlobal && existing.Name == d.Name && existing.Key != d.Key {
				return fmt.Errorf("%w: %q is %q in %q, not %q", ErrCompositeConflict, d.Name, existing.Key, parent, d.Key)
			}
		}
	}
	return nil
}

// reaches reports whether target is declared, directly or nested, under from.
func (c *Composites) reaches(from, target string, seen map[string]bool) bool {
	if seen[from] {
		return false
	}
	seen[from] = true
	for _, d := range c.decls[from] {
		if d.Key == target || c.reaches(d.Key, target, seen) {
			return true
		}
	}
	return false
}
