package navigation

import (
	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/route"
)

// NodeKind tells shells, controllers and composites apart.
type NodeKind int

const (
	KindShell NodeKind = iota
	KindController
	KindComposite
)

func (k NodeKind) String() string {
	switch k {
	case KindShell:
		return "shell"
	case KindController:
		return "controller"
	default:
		return "composite"
	}
}

// Node is one controller or composite of a screen tree.
type Node struct {
	Kind NodeKind
	// Key is the canonical controller key.
	Key string
	// Name is the composite name. Empty for shells and controllers.
	Name string
	// ID is the entry ID of the instance.
	ID        string
	Scope     controller.Scope
	Instance  any
	Component controller.Component
	// Cacheable controllers and shells are kept when detached.
	Cacheable bool
	// Fresh is set when the instance was created by the navigation that built this tree.
	Fresh    bool
	State    State
	Children []*Node
}

// Walk visits n and its descendants parent first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// WalkPost visits the descendants of n before n.
func (n *Node) WalkPost(fn func(*Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		c.WalkPost(fn)
	}
	fn(n)
}

// Find returns the first node with key, searching parent first.
func (n *Node) Find(key string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.Key == key {
			found = c
		}
	})
	return found
}

// Tree is the displayed screen: a shell and a controller with its composites.
type Tree struct {
	Route route.Route
	// Shell is nil when no shell is registered for the route's shell id.
	Shell      *Node
	Controller *Node
	// Entry is the controller's cache entry.
	Entry *controller.Entry
}

// ShellID returns the shell id of the displayed route.
func (t *Tree) ShellID() string {
	if t == nil {
		return ""
	}
	return t.Route.Shell
}

// Contains reports whether key is displayed as shell, controller or composite.
func (t *Tree) Contains(key string) bool {
	if t == nil {
		return false
	}
	return t.Shell.Find(key) != nil || t.Controller.Find(key) != nil
}

// nodes returns every node, controller subtree first and shell subtree last.
func (t *Tree) nodes() []*Node {
	if t == nil {
		return nil
	}
	var out []*Node
	t.Controller.Walk(func(n *Node) { out = append(out, n) })
	t.Shell.Walk(func(n *Node) { out = append(out, n) })
	return out
}
