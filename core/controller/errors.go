package controller

import "errors"

var (
	// ErrUnknownController is returned when no definition is registered for a key.
	ErrUnknownController = errors.New("controller not registered")

	// ErrDuplicateController is returned when a key is registered twice.
	ErrDuplicateController = errors.New("controller already registered")

	// ErrInvalidDefinition is returned for a definition without key or constructor.
	ErrInvalidDefinition = errors.New("controller definition requires a key and a constructor")

	// ErrConstructionFailed is returned when a constructor panics or returns nil.
	ErrConstructionFailed = errors.New("controller construction failed")

	// ErrCompositeNotFound is returned when a composite name is not declared for a parent.
	ErrCompositeNotFound = errors.New("composite not found")

	// ErrDuplicateComposite is returned when a parent declares the same composite name twice.
	ErrDuplicateComposite = errors.New("composite already declared")

	// ErrCompositeConflict is returned when two parents declare the same global composite
	// name with different controller keys.
	ErrCompositeConflict = errors.New("global composite declared with a different key")
)
