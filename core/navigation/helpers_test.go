package navigation_test

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/navigator/core/confirm"
	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/event"
	"github.com/dmitrymomot/navigator/core/history"
	"github.com/dmitrymomot/navigator/core/host"
	"github.com/dmitrymomot/navigator/core/navigation"
)

// recorder collects lifecycle calls in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// take returns the calls recorded since the last take.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.calls
	r.calls = nil
	return out
}

// screen implements every controller capability and records each hook.
type screen struct {
	key  string
	rec  *recorder
	mu   sync.Mutex
	deps controller.Dependencies

	params     []string
	cached     []bool
	binds      int
	starts     int
	activates  int
	composites map[string]any

	bind      func(ctx context.Context, l controller.Loader) error
	setParams func(params ...string) error
	mayStop   func(h confirm.Handle)
	onStart   func(s *screen)
	onStop    func()
}

func (s *screen) Wire(deps controller.Dependencies) { s.deps = deps }

func (s *screen) SetCached(cached bool) { s.cached = append(s.cached, cached) }

func (s *screen) Bind(ctx context.Context, l controller.Loader) error {
	s.rec.add(s.key + ".bind")
	s.binds++
	if s.bind != nil {
		return s.bind(ctx, l)
	}
	l.Continue()
	return nil
}

func (s *screen) SetParameters(params ...string) error {
	s.rec.add(s.key + ".params")
	s.params = params
	if s.setParams != nil {
		return s.setParams(params...)
	}
	return nil
}

func (s *screen) SetComposite(name string, composite any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.composites == nil {
		s.composites = map[string]any{}
	}
	s.composites[name] = composite
}

func (s *screen) MayStop(h confirm.Handle) {
	s.rec.add(s.key + ".mayStop")
	if s.mayStop != nil {
		s.mayStop(h)
		return
	}
	h.ContinueRouting()
}

func (s *screen) Start() {
	s.rec.add(s.key + ".start")
	s.starts++
	if s.onStart != nil {
		s.onStart(s)
	}
}

func (s *screen) Stop() {
	s.rec.add(s.key + ".stop")
	if s.onStop != nil {
		s.onStop()
	}
}

func (s *screen) Activate() {
	s.rec.add(s.key + ".activate")
	s.activates++
}

func (s *screen) Deactivate() { s.rec.add(s.key + ".deactivate") }

func (s *screen) RemoveHandlers() { s.rec.add(s.key + ".removeHandlers") }

type view struct {
	key string
	rec *recorder
}

func (v *view) Render() { v.rec.add(v.key + ".render") }
func (v *view) Bind() { v.rec.add(v.key + ".handlers") }
func (v *view) Element() any { return v.key }
func (v *view) OnAttach() { v.rec.add(v.key + ".attach") }
func (v *view) OnDetach() { v.rec.add(v.key + ".detach") }

type harness struct {
	t      *testing.T
	rec    *recorder
	router *navigation.Router
	host   *host.Memory
	store  *history.MemoryStore

	mu      sync.Mutex
	created map[string][]*screen
	setup   map[string]func(*screen)
	events  []string
	payload []any
}

type screenDef struct {
	key       string
	cacheable bool
}

func newHarness(t *testing.T, cfg navigation.Config, defs []screenDef, opts ...navigation.Option) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		rec:     &recorder{},
		host:    host.NewMemory(""),
		store:   history.NewMemoryStore(0),
		created: map[string][]*screen{},
		setup:   map[string]func(*screen){},
	}

	factory, err := controller.NewFactory()
	require.NoError(t, err)
	for _, d := range defs {
		key := d.key
		factory.MustRegister(controller.Definition{
			Key: key,
			New: func() any {
				s := &screen{key: key, rec: h.rec}
				h.mu.Lock()
				h.created[key] = append(h.created[key], s)
				setup := h.setup[key]
				h.mu.Unlock()
				if setup != nil {
					setup(s)
				}
				return s
			},
			Component: func(any) controller.Component { return &view{key: key, rec: h.rec} },
			Cacheable: d.cacheable,
		})
	}

	bus := event.NewSyncTransport(event.NewHandler(event.All, func(_ context.Context, evt event.Event) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, evt.Name)
		h.payload = append(h.payload, evt.Payload)
		return nil
	}))

	base := []navigation.Option{
		navigation.WithConfig(cfg),
		navigation.WithHost(h.host),
		navigation.WithHistory(h.store),
		navigation.WithPublisher(event.NewPublisher(bus)),
		navigation.WithContext("app"),
	}
	h.router, err = navigation.New(factory, append(base, opts...)...)
	require.NoError(t, err)
	return h
}

func testConfig() navigation.Config {
	return navigation.Config{
		UsingHash:      true,
		HistoryEnabled: true,
		ErrorRoute:     "/shell/error",
	}
}

// configure registers a hook run on every new instance of key.
func (h *harness) configure(key string, fn func(*screen)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setup[key] = fn
}

func (h *harness) instances(key string) []*screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.created[key])
}

func (h *harness) last(key string) *screen {
	all := h.instances(key)
	require.NotEmpty(h.t, all, "no instance of %s", key)
	return all[len(all)-1]
}

func (h *harness) eventNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.events)
}

func (h *harness) register(pattern, key string) {
	require.NoError(h.t, h.router.Register(pattern, key))
}

func (h *harness) navigate(token string) *navigation.Result {
	h.t.Helper()
	res, err := h.router.Navigate(context.Background(), token)
	require.NoError(h.t, err)
	return res
}

// filterCalls keeps the calls containing one of the keys.
func filterCalls(calls []string, keys ...string) []string {
	var out []string
	for _, c := range calls {
		for _, k := range keys {
			if strings.HasPrefix(c, k+".") {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
