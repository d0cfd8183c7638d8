package controller

import (
	"fmt"
	"slices"
	"sort"
)

// Definition describes how to build a controller or composite.
// Definitions replace generated creator classes: a build step or the application
// registers one closure per canonical key at startup.
type Definition struct {
	// Key is the canonical controller key.
	Key string
	// New constructs a fresh instance.
	New func() any
	// Component builds the component for an instance. Nil means the controller has no view.
	Component func(instance any) Component
	// Cacheable instances are kept after they are detached and reused later.
	Cacheable bool
}

// Factory is the registry of definitions.
// Registration is expected at startup, before the first navigation.
type Factory struct {
	defs map[string]Definition
}

// NewFactory creates a factory with the given definitions.
func NewFactory(defs ...Definition) (*Factory, error) {
	f := &Factory{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := f.Register(def); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Register adds a definition.
func (f *Factory) Register(def Definition) error {
	if def.Key == "" || def.New == nil {
		return ErrInvalidDefinition
	}
	if _, ok := f.defs[def.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateController, def.Key)
	}
	f.defs[def.Key] = def
	return nil
}

// MustRegister is like Register but panics on error.
func (f *Factory) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := f.Register(def); err != nil {
			panic(err)
		}
	}
}

// Definition returns the definition for key.
func (f *Factory) Definition(key string) (Definition, bool) {
	def, ok := f.defs[key]
	return def, ok
}

// Has reports whether key is registered.
func (f *Factory) Has(key string) bool {
	_, ok := f.defs[key]
	return ok
}

// Keys returns the registered keys sorted.
func (f *Factory) Keys() []string {
	keys := make([]string, 0, len(f.defs))
	for k := range f.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return slices.Clip(keys)
}

// Create constructs a new instance for key.
func (f *Factory) Create(key string) (instance any, err error) {
	def, ok := f.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownController, key)
	}

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("%w: %q panicked: %v", ErrConstructionFailed, key, r)
		}
	}()

	instance = def.New()
	if instance == nil {
		return nil, fmt.Errorf("%w: %q returned nil", ErrConstructionFailed, key)
	}
	return instance, nil
}

// CreateComponent builds the component of an instance created for key.
// It returns nil without error for definitions that have no component.
func (f *Factory) CreateComponent(key string, instance any) (c Component, err error) {
	def, ok := f.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownController, key)
	}
	if def.Component == nil {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = fmt.Errorf("%w: component of %q panicked: %v", ErrConstructionFailed, key, r)
		}
	}()

	return def.Component(instance), nil
}
