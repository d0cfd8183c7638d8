package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/dmitrymomot/navigator/core/confirm"
	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/event"
	"github.com/dmitrymomot/navigator/core/history"
	"github.com/dmitrymomot/navigator/core/host"
	"github.com/dmitrymomot/navigator/core/logger"
	"github.com/dmitrymomot/navigator/core/route"
)

// ErrNilFactory is returned by New without a factory.
var ErrNilFactory = errors.New("navigation: factory is required")

// ErrRouterBusy is returned by Evict while a navigation is running.
var ErrRouterBusy = errors.New("navigation in progress")

// Status tells whether a navigation ran or was queued.
type Status int

const (
	// StatusCompleted means the navigation ran and Result carries its outcome.
	StatusCompleted Status = iota
	// StatusQueued means the navigation waits behind a running one. Its outcome is published as an event.
	StatusQueued
)

// String returns "completed" or "queued".
func (s Status) String() string {
	if s == StatusQueued {
		return "queued"
	}
	return "completed"
}

// Result describes a navigation.
type Result struct {
	ID     string
	Status Status
	// Token is the requested location token.
	Token string
	// Route is the committed route.
	Route      route.Route
	Controller *controller.Entry
	// Trail lists the routes visited through redirects.
	Trail []string
	Err   error
}

type request struct {
	ctx    context.Context
	token  string
	record bool
}

// Router resolves location tokens and swaps the displayed screen tree.
//
// Navigations are serialized. A navigation requested while another one runs, from a lifecycle
// hook or from another goroutine, is queued and runs once the current one finishes.
type Router struct {
	cfg        Config
	factory    *controller.Factory
	cache      *controller.Cache
	composites *controller.Composites
	matcher    *route.Matcher
	seq        *sequencer
	filters    Chain
	routes     map[string]string
	shells     map[string]string

	host    host.Host
	history history.Store
	events  *event.Publisher
	logger  *slog.Logger
	appCtx  any

	maxRedirects int

	busy        atomic.Bool
	mu          sync.Mutex
	queue       []request
	current     *Tree
	unsubscribe func()
}

// DefaultConfig returns the settings used when WithConfig is not given.
func DefaultConfig() Config {
	return Config{
		UsingHash:      true,
		HistoryEnabled: true,
		MaxRedirects:   DefaultMaxRedirects,
		BindTimeout:    30 * time.Second,
		ConfirmTimeout: 30 * time.Second,
	}
}

// New creates a router building controllers through factory.
func New(factory *controller.Factory, opts ...Option) (*Router, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	r := &Router{
		cfg:     DefaultConfig(),
		factory: factory,
		routes:  make(map[string]string),
		shells:  make(map[string]string),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.maxRedirects > 0 {
		r.cfg.MaxRedirects = r.maxRedirects
	}

	r.matcher = route.NewMatcher(
		route.WithColonParams(r.cfg.UsingColonParams),
		route.WithErrorRoute(r.cfg.ErrorRoute),
	)
	if r.cfg.HistoryEnabled && r.history == nil {
		r.history = history.NewMemoryStore(0)
	}

	deps := controller.Dependencies{Context: r.appCtx, Events: r.events, Navigator: r}
	r.cache = controller.NewCache(factory, deps)
	r.composites = controller.NewComposites(factory, deps)
	r.seq = &sequencer{
		factory:     factory,
		cache:       r.cache,
		composites:  r.composites,
		shells:      r.shells,
		bindTimeout: r.cfg.BindTimeout,
		logger:      r.logger,
		publish:     r.publish,
	}
	return r, nil
}

// Register routes pattern to the controller key.
func (r *Router) Register(pattern, key string) error {
	if !r.factory.Has(key) {
		return fmt.Errorf("%w: %q", controller.ErrUnknownController, key)
	}
	p, err := r.matcher.Register(pattern)
	if err != nil {
		return err
	}
	r.routes[p.String()] = key
	return nil
}

// RegisterShell sets the controller displayed around every route of shellID.
func (r *Router) RegisterShell(shellID, key string) error {
	if !r.factory.Has(key) {
		return fmt.Errorf("%w: %q", controller.ErrUnknownController, key)
	}
	r.shells[shellID] = key
	return nil
}

// Declare adds composite declarations to a controller or composite.
func (r *Router) Declare(parentKey string, decls ...controller.CompositeDecl) error {
	return r.composites.Declare(parentKey, decls...)
}

// Use appends filters to the chain.
func (r *Router) Use(filters ...Filter) {
	r.filters = append(r.filters, filters...)
}

// Validate checks that the error route resolves.
func (r *Router) Validate() error {
	return r.matcher.Validate()
}

// Config returns the router configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// Current returns the displayed tree, nil before the first navigation.
func (r *Router) Current() *Tree {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Busy reports whether a navigation is running.
func (r *Router) Busy() bool {
	return r.busy.Load()
}

// Start validates the configuration, follows host location changes and performs the initial
// navigation to the host location, the start route or the error route, in that order.
func (r *Router) Start(ctx context.Context) error {
	if err := r.Validate(); err != nil {
		return err
	}

	token := ""
	if r.host != nil {
		token = host.Parse(r.host.Location())
		if r.unsubscribe == nil {
			base := context.WithoutCancel(ctx)
			r.unsubscribe = r.host.Subscribe(func(location string) {
				_, _ = r.Navigate(base, host.Parse(location))
			})
		}
	}
	if token == "" {
		token = r.cfg.StartRoute
	}
	if token == "" {
		token = r.cfg.ErrorRoute
	}

	r.logger.InfoContext(ctx, "router started", logger.Token(token))
	_, err := r.Navigate(ctx, token)
	return err
}

// Stop stops following host location changes.
func (r *Router) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Navigate displays the screen for token.
func (r *Router) Navigate(ctx context.Context, token string) (*Result, error) {
	return r.submit(request{ctx: ctx, token: token, record: r.cfg.HistoryEnabled})
}

// NavigateTo implements controller.Navigator.
func (r *Router) NavigateTo(ctx context.Context, token string) error {
	_, err := r.Navigate(ctx, token)
	return err
}

// Back navigates to the previous location in history without recording it again.
func (r *Router) Back(ctx context.Context) (*Result, error) {
	if r.history == nil {
		return nil, ErrNoHistory
	}
	n, err := r.history.Len(ctx)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, ErrNoHistory
	}

	top, err := r.history.Pop(ctx)
	if err != nil {
		return nil, err
	}
	prev, err := r.history.Peek(ctx)
	if err != nil {
		return nil, errors.Join(err, r.history.Push(ctx, top))
	}

	res, err := r.submit(request{ctx: ctx, token: prev, record: false})
	if err != nil {
		if perr := r.history.Push(ctx, top); perr != nil {
			return res, errors.Join(err, perr)
		}
	}
	return res, err
}

// Evict drops a cached controller. A displayed controller cannot be evicted.
// Navigations requested while the eviction runs are queued.
func (r *Router) Evict(ctx context.Context, key string) error {
	r.mu.Lock()
	if r.busy.Load() {
		r.mu.Unlock()
		return ErrRouterBusy
	}
	if r.current.Contains(key) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrControllerActive, key)
	}
	r.busy.Store(true)
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			r.mu.Lock()
			r.queue = nil
			r.busy.Store(false)
			r.mu.Unlock()
			panic(rec)
		}
	}()

	if e, ok := r.cache.Evict(key); ok {
		if st, ok := e.Instance.(controller.Startable); ok {
			st.Stop()
		}
		r.composites.Destroy(e.ID)
		r.logger.DebugContext(ctx, "controller evicted", logger.Controller(key))
	}
	r.drain()
	return nil
}

func (r *Router) submit(req request) (*Result, error) {
	if req.ctx == nil {
		req.ctx = context.Background()
	}

	r.mu.Lock()
	if r.busy.Load() {
		req.ctx = context.WithoutCancel(req.ctx)
		r.queue = append(r.queue, req)
		r.mu.Unlock()

		r.logger.DebugContext(req.ctx, "navigation queued", logger.Token(req.token))
		r.publish(req.ctx, NavigationQueued{Token: req.token})
		return &Result{Status: StatusQueued, Token: req.token}, nil
	}
	r.busy.Store(true)
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			r.mu.Lock()
			r.queue = nil
			r.busy.Store(false)
			r.mu.Unlock()
			panic(rec)
		}
	}()

	res, err := r.run(req)
	r.drain()
	return res, err
}

func (r *Router) drain() {
	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.busy.Store(false)
			r.mu.Unlock()
			return
		}
		req := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		_, _ = r.run(req)
	}
}

func (r *Router) run(req request) (*Result, error) {
	ctx := req.ctx
	navID := uuid.New().String()
	start := time.Now()
	trail := NewTrail()
	log := r.logger.With(logger.NavigationID(navID))
	res := &Result{ID: navID, Status: StatusCompleted, Token: req.token}

	fail := func(err error) (*Result, error) {
		res.Trail = trail.Tokens()
		res.Err = err
		log.WarnContext(ctx, "navigation failed",
			logger.Token(req.token),
			logger.Trail(res.Trail),
			logger.Error(err),
			logger.Elapsed(start),
		)
		r.publish(ctx, NavigationFailed{
			NavigationID: navID,
			Token:        req.token,
			Trail:        res.Trail,
			Err:          err,
			Duration:     time.Since(start),
		})
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	current := r.Current()
	token := req.token
	confirmed := false
	maxRedirects := r.cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	for {
		if trail.Len() > maxRedirects {
			return fail(fmt.Errorf("%w: %s", ErrTooManyRedirects, trail))
		}

		rt, err := r.matcher.Resolve(token)
		if err != nil {
			return fail(err)
		}
		if err := trail.Enter(rt); err != nil {
			r.publish(ctx, LoopDetected{NavigationID: navID, Trail: trail.Tokens(), Token: rt.Token()})
			return fail(err)
		}
		log.DebugContext(ctx, "route matched", logger.Token(token), logger.Route(rt))
		r.publish(ctx, RouteMatched{NavigationID: navID, Token: token, Route: rt})

		if err := r.filters.Run(ctx, rt); err != nil {
			i, ok := route.AsInterception(err)
			if ok && i.IsRedirect() {
				log.DebugContext(ctx, "filter redirected", logger.Route(rt), logger.Key("redirect", i.Redirect))
				r.publish(ctx, FilterRedirected{NavigationID: navID, From: rt.Token(), To: i.Redirect})
				token = i.Redirect
				continue
			}
			if ok {
				return fail(errors.Join(ErrRoutingIntercepted, err))
			}
			return fail(err)
		}

		key, ok := r.routes[rt.Pattern]
		if !ok {
			return fail(fmt.Errorf("%w: %q", ErrNoControllerForRoute, rt.Pattern))
		}

		if !confirmed {
			if err := r.confirm(ctx, current); err != nil {
				r.publish(ctx, ConfirmationAborted{NavigationID: navID, Token: rt.Token(), Err: err})
				return fail(errors.Join(ErrRoutingVetoed, err))
			}
			confirmed = true
		}

		tree, st, err := r.seq.prepare(ctx, navID, rt, key, current)
		if err != nil {
			r.seq.discard(st)
			i, ok := route.AsInterception(err)
			if ok && i.IsRedirect() {
				log.DebugContext(ctx, "controller redirected", logger.Controller(key), logger.Key("redirect", i.Redirect))
				r.publish(ctx, ControllerRedirected{NavigationID: navID, Key: key, From: rt.Token(), To: i.Redirect})
				token = i.Redirect
				continue
			}
			if ok {
				return fail(errors.Join(ErrRoutingIntercepted, err))
			}
			return fail(errors.Join(ErrConstructionFailure, err))
		}

		shellChanged := current == nil || current.Shell != tree.Shell
		if current != nil {
			r.seq.teardown(ctx, navID, current, shellChanged)
		}
		r.seq.attach(ctx, navID, tree, shellChanged)

		r.mu.Lock()
		r.current = tree
		r.mu.Unlock()

		location := rt.Token()
		if rt.Fallback && !r.cfg.StayOnSide {
			location = host.Parse(token)
		}
		r.commitLocation(ctx, log, location, req.record)

		res.Route = rt
		res.Controller = tree.Entry
		res.Trail = trail.Tokens()
		log.InfoContext(ctx, "navigation completed",
			logger.Route(rt),
			logger.Controller(key),
			logger.Cached(tree.Entry.Cached),
			logger.Elapsed(start),
		)
		r.publish(ctx, NavigationCompleted{
			NavigationID: navID,
			Token:        location,
			Route:        rt,
			Key:          key,
			Cached:       tree.Entry.Cached,
			Trail:        res.Trail,
			Duration:     time.Since(start),
		})
		return res, nil
	}
}

// confirm asks every confirmable node of the displayed tree.
func (r *Router) confirm(ctx context.Context, current *Tree) error {
	var parties []confirm.Party
	for _, n := range current.nodes() {
		if p, ok := n.Instance.(controller.Confirmable); ok {
			parties = append(parties, p)
		}
	}
	if r.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ConfirmTimeout)
		defer cancel()
	}
	_, err := confirm.Run(ctx, parties)
	return err
}

// commitLocation records the committed location. Failures are logged: the tree is already
// displayed at this point.
func (r *Router) commitLocation(ctx context.Context, log *slog.Logger, location string, record bool) {
	if record && r.history != nil {
		if err := r.history.Push(ctx, location); err != nil {
			log.ErrorContext(ctx, "failed to record history", logger.Token(location), logger.Error(err))
		}
	}
	if r.host != nil {
		r.host.SetLocation(host.Format(location, r.cfg.UsingHash))
	}
}

func (r *Router) publish(ctx context.Context, payload any) {
	if r.events == nil {
		return
	}
	_ = r.events.Publish(ctx, payload)
}
