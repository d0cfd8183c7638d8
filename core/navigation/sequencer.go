package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/logger"
	"github.com/dmitrymomot/navigator/core/route"
)

// sequencer orders the lifecycle hooks of a navigation.
//
// A navigation runs in three phases. prepare builds the new tree while it is detached and
// may fail or be intercepted without touching the displayed tree. teardown stops and detaches
// the displayed tree. attach attaches and starts the new one. Only prepare can fail.
type sequencer struct {
	factory     *controller.Factory
	cache       *controller.Cache
	composites  *controller.Composites
	shells      map[string]string
	bindTimeout time.Duration
	logger      *slog.Logger
	publish     func(ctx context.Context, payload any)
}

// staging records what prepare created so a failed navigation can be rolled back.
type staging struct {
	entries []*controller.Entry
	created []*controller.CompositeEntry
	bound   []any
}

func (s *sequencer) prepare(ctx context.Context, navID string, r route.Route, key string, current *Tree) (*Tree, *staging, error) {
	st := &staging{}
	tree := &Tree{Route: r}

	if current != nil && current.ShellID() == r.Shell {
		tree.Shell = current.Shell
	} else if shellKey, ok := s.shells[r.Shell]; ok {
		node, _, err := s.prepareRoot(ctx, navID, KindShell, shellKey, nil, false, st)
		if err != nil {
			return nil, st, err
		}
		tree.Shell = node
	}

	node, entry, err := s.prepareRoot(ctx, navID, KindController, key, r.Parameters, true, st)
	if err != nil {
		return nil, st, err
	}
	tree.Controller = node
	tree.Entry = entry
	return tree, st, nil
}

func (s *sequencer) prepareRoot(ctx context.Context, navID string, kind NodeKind, key string, params []string, inject bool, st *staging) (*Node, *controller.Entry, error) {
	entry, err := s.cache.Resolve(key)
	if err != nil {
		return nil, nil, err
	}

	node := &Node{
		Kind:      kind,
		Key:       key,
		ID:        entry.ID,
		Instance:  entry.Instance,
		Component: entry.Component,
		Cacheable: entry.Cacheable,
		Fresh:     !entry.Cached,
	}

	if entry.Cached {
		s.publish(ctx, ControllerReused{NavigationID: navID, Key: key, Kind: kind.String()})
	} else {
		st.entries = append(st.entries, entry)
		s.publish(ctx, ControllerCreated{NavigationID: navID, Key: key, Kind: kind.String()})

		if err := s.bind(ctx, entry.Instance); err != nil {
			return nil, nil, err
		}
		comp, err := s.factory.CreateComponent(key, entry.Instance)
		if err != nil {
			return nil, nil, err
		}
		entry.Component = comp
		node.Component = comp
		if ca, ok := entry.Instance.(controller.ComponentAware); ok && comp != nil {
			ca.SetComponent(comp)
		}
	}
	node.State = StateBound

	if err := s.prepareComposites(ctx, navID, node, node.Fresh, st); err != nil {
		return nil, nil, err
	}

	if inject {
		if err := setParameters(entry.Instance, params); err != nil {
			return nil, nil, err
		}
	}

	if err := s.render(node, st); err != nil {
		return nil, nil, err
	}
	return node, entry, nil
}

// prepareComposites resolves the declared composites of parent and their own composites.
// wire is set when parent is new and must receive every composite.
func (s *sequencer) prepareComposites(ctx context.Context, navID string, parent *Node, wire bool, st *staging) error {
	for _, decl := range s.composites.Declared(parent.Key) {
		ce, created, err := s.composites.GetOrCreate(parent.Key, parent.ID, decl.Name, decl.Scope)
		if err != nil {
			if errors.Is(err, controller.ErrCompositeNotFound) {
				s.logger.WarnContext(ctx, "composite not found",
					logger.NavigationID(navID),
					logger.Controller(parent.Key),
					logger.Composite(decl.Name),
					logger.Error(err),
				)
				s.publish(ctx, CompositeNotFound{NavigationID: navID, ParentKey: parent.Key, Name: decl.Name, Err: err})
				continue
			}
			return err
		}

		child := &Node{
			Kind:      KindComposite,
			Key:       ce.Key,
			Name:      ce.Name,
			ID:        ce.ID,
			Scope:     ce.Scope,
			Instance:  ce.Instance,
			Component: ce.Component,
			Fresh:     created,
		}
		if created {
			st.created = append(st.created, ce)
			s.publish(ctx, ControllerCreated{NavigationID: navID, Key: ce.Key, Name: ce.Name, Kind: KindComposite.String()})
			if err := s.bind(ctx, ce.Instance); err != nil {
				return err
			}
		} else {
			s.publish(ctx, ControllerReused{NavigationID: navID, Key: ce.Key, Name: ce.Name, Kind: KindComposite.String()})
		}
		child.State = StateBound

		if wire || created {
			if ca, ok := parent.Instance.(controller.CompositeAware); ok {
				ca.SetComposite(ce.Name, ce.Instance)
			}
		}
		parent.Children = append(parent.Children, child)

		if err := s.prepareComposites(ctx, navID, child, created, st); err != nil {
			return err
		}
	}
	return nil
}

// render renders and binds the components created for this navigation, parent first.
func (s *sequencer) render(root *Node, st *staging) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render panicked: %v", rec)
		}
	}()

	root.Walk(func(n *Node) {
		if n.Fresh && n.Component != nil {
			n.Component.Render()
			st.bound = append(st.bound, n.Instance)
			n.Component.Bind()
		}
		n.State = StateComponentReady
	})
	return nil
}

// bind calls Binder.Bind and waits until the loader continues.
func (s *sequencer) bind(ctx context.Context, instance any) error {
	b, ok := instance.(controller.Binder)
	if !ok {
		return nil
	}
	if s.bindTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.bindTimeout)
		defer cancel()
	}

	l := &loader{done: make(chan struct{})}
	if err := callBind(ctx, b, l); err != nil {
		return err
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for bind: %w", ctx.Err())
	}
}

// discard rolls back everything prepare created.
func (s *sequencer) discard(st *staging) {
	if st == nil {
		return
	}
	for i := len(st.bound) - 1; i >= 0; i-- {
		if hr, ok := st.bound[i].(controller.HandlerRemover); ok {
			hr.RemoveHandlers()
		}
	}
	for i := len(st.created) - 1; i >= 0; i-- {
		s.composites.Discard(st.created[i])
	}
	for i := len(st.entries) - 1; i >= 0; i-- {
		e := st.entries[i]
		s.composites.Destroy(e.ID)
		if cur, ok := s.cache.Get(e.Key); ok && cur.ID == e.ID {
			s.cache.Evict(e.Key)
		}
	}
}

// teardown stops and detaches the displayed tree. The shell goes last, and only when it changes.
func (s *sequencer) teardown(ctx context.Context, navID string, t *Tree, withShell bool) {
	s.teardownRoot(ctx, navID, t.Controller)
	if withShell {
		s.teardownRoot(ctx, navID, t.Shell)
	}
}

type retention struct {
	node     *Node
	retained bool
}

func (s *sequencer) teardownRoot(ctx context.Context, navID string, root *Node) {
	if root == nil {
		return
	}

	var order []retention
	var collect func(n *Node, retained bool)
	collect = func(n *Node, retained bool) {
		order = append(order, retention{node: n, retained: retained})
		for _, c := range n.Children {
			collect(c, retained || c.Scope == controller.ScopeGlobal)
		}
	}
	collect(root, root.Cacheable)

	for _, r := range order {
		r.node.State = StateStopping
		if r.retained {
			if a, ok := r.node.Instance.(controller.Activatable); ok {
				a.Deactivate()
			}
		} else if st, ok := r.node.Instance.(controller.Startable); ok {
			st.Stop()
		}
	}

	for _, r := range order {
		if r.node.Component != nil {
			r.node.Component.OnDetach()
		}
		r.node.State = StateDetached
	}

	for _, r := range order {
		if hr, ok := r.node.Instance.(controller.HandlerRemover); ok {
			hr.RemoveHandlers()
		}
		s.publish(ctx, ControllerDetached{
			NavigationID: navID,
			Key:          r.node.Key,
			Name:         r.node.Name,
			Kind:         r.node.Kind.String(),
			Retained:     r.retained,
		})
	}

	if !root.Cacheable {
		s.composites.Destroy(root.ID)
	}
}

// attach attaches the new tree. The shell goes first, and only when it changes.
func (s *sequencer) attach(ctx context.Context, navID string, t *Tree, withShell bool) {
	if withShell {
		s.attachRoot(ctx, navID, t.Shell)
	}
	s.attachRoot(ctx, navID, t.Controller)
}

// attachRoot fires OnAttach parent first, then Start or Activate children first so the root
// goes last.
func (s *sequencer) attachRoot(ctx context.Context, navID string, root *Node) {
	if root == nil {
		return
	}

	root.Walk(func(n *Node) {
		if n.Component != nil {
			n.Component.OnAttach()
		}
	})

	root.WalkPost(func(n *Node) {
		if n.Fresh {
			if st, ok := n.Instance.(controller.Startable); ok {
				st.Start()
			}
		} else if a, ok := n.Instance.(controller.Activatable); ok {
			a.Activate()
		}
		n.State = StateAttached
		s.publish(ctx, ControllerAttached{
			NavigationID: navID,
			Key:          n.Key,
			Name:         n.Name,
			Kind:         n.Kind.String(),
			State:        n.State.String(),
		})
	})
}

type loader struct {
	once sync.Once
	done chan struct{}
}

func (l *loader) Continue() {
	l.once.Do(func() { close(l.done) })
}

func callBind(ctx context.Context, b controller.Binder, l controller.Loader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("bind panicked: %v", rec)
		}
	}()
	return b.Bind(ctx, l)
}

func setParameters(instance any, params []string) (err error) {
	pr, ok := instance.(controller.ParameterReceiver)
	if !ok {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("set parameters panicked: %v", rec)
		}
	}()
	return pr.SetParameters(params...)
}
