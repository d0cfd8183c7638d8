package navigation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/navigator/core/confirm"
	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/navigation"
	"github.com/dmitrymomot/navigator/core/route"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := navigation.New(nil)
	require.ErrorIs(t, err, navigation.ErrNilFactory)

	f, err := controller.NewFactory()
	require.NoError(t, err)

	_, err = navigation.New(f, navigation.WithMaxRedirects(0))
	require.Error(t, err)

	r, err := navigation.New(f)
	require.NoError(t, err)
	assert.Equal(t, navigation.DefaultConfig(), r.Config())
	assert.Nil(t, r.Current())

	require.ErrorIs(t, r.Register("/shell/a", "missing"), controller.ErrUnknownController)
	require.ErrorIs(t, r.RegisterShell("shell", "missing"), controller.ErrUnknownController)
}

func TestNew_MaxRedirectsSurvivesConfig(t *testing.T) {
	t.Parallel()

	f, err := controller.NewFactory()
	require.NoError(t, err)

	r, err := navigation.New(f, navigation.WithMaxRedirects(3), navigation.WithConfig(testConfig()))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Config().MaxRedirects)

	r, err = navigation.New(f, navigation.WithConfig(testConfig()), navigation.WithMaxRedirects(5))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Config().MaxRedirects)
}

func TestRouter_FirstNavigation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "route01"}, {key: "error"}})
	h.register("/shell/route01/*", "route01")
	h.register("/shell/error", "error")

	res := h.navigate("/shell/route01/42")

	assert.Equal(t, navigation.StatusCompleted, res.Status)
	assert.False(t, res.Controller.Cached)
	assert.Equal(t, []string{"42"}, res.Route.Parameters)

	s := h.last("route01")
	assert.Equal(t, []string{"42"}, s.params)
	assert.Equal(t, []bool{false}, s.cached)
	assert.Equal(t, "app", s.deps.Context)
	assert.Equal(t, "route01", s.deps.Key)
	assert.Same(t, h.router, s.deps.Navigator)

	assert.Equal(t, []string{
		"route01.bind",
		"route01.params",
		"route01.render",
		"route01.handlers",
		"route01.attach",
		"route01.start",
	}, h.rec.take())
	assert.Zero(t, s.activates)

	tree := h.router.Current()
	require.NotNil(t, tree)
	assert.Equal(t, navigation.StateAttached, tree.Controller.State)
	assert.Equal(t, "#/shell/route01/42", h.host.Location())

	n, err := h.store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRouter_CachedControllerIsReused(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "detail", cacheable: true}, {key: "list"}, {key: "error"}})
	h.register("/shell/detail/*", "detail")
	h.register("/shell/list", "list")
	h.register("/shell/error", "error")

	first := h.navigate("/shell/detail/1")
	h.rec.take()

	h.navigate("/shell/list")
	assert.Equal(t, []string{
		"detail.mayStop",
		"list.bind",
		"list.params",
		"list.render",
		"list.handlers",
		"detail.deactivate",
		"detail.detach",
		"detail.removeHandlers",
		"list.attach",
		"list.start",
	}, h.rec.take())

	again := h.navigate("/shell/detail/2")
	assert.True(t, again.Controller.Cached)
	assert.Same(t, first.Controller.Instance, again.Controller.Instance)
	assert.Equal(t, []string{
		"list.mayStop",
		"detail.params",
		"list.stop",
		"list.detach",
		"list.removeHandlers",
		"detail.attach",
		"detail.activate",
	}, h.rec.take())

	require.Len(t, h.instances("detail"), 1)
	s := h.last("detail")
	assert.Equal(t, 1, s.binds, "bind is skipped for cached controllers")
	assert.Equal(t, 1, s.starts)
	assert.Equal(t, 1, s.activates)
	assert.Equal(t, []string{"2"}, s.params)
	assert.Equal(t, []bool{false, true}, s.cached)
	assert.Len(t, h.instances("list"), 1)
}

func TestRouter_ConfirmationAbortKeepsTree(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, mayStop func(h confirm.Handle)) {
		t.Helper()
		h := newHarness(t, testConfig(), []screenDef{{key: "x"}, {key: "y"}, {key: "error"}})
		h.register("/shell/x", "x")
		h.register("/shell/y", "y")
		h.register("/shell/error", "error")
		h.configure("x", func(s *screen) { s.mayStop = mayStop })

		h.navigate("/shell/x")
		before := h.router.Current()
		h.rec.take()

		res, err := h.router.Navigate(context.Background(), "/shell/y")
		require.ErrorIs(t, err, navigation.ErrRoutingVetoed)
		require.ErrorIs(t, err, confirm.ErrAborted)
		require.ErrorIs(t, res.Err, navigation.ErrRoutingVetoed)

		assert.Equal(t, []string{"x.mayStop"}, h.rec.take(), "no teardown or attach after an abort")
		assert.Same(t, before, h.router.Current())
		assert.Equal(t, navigation.StateAttached, before.Controller.State)
		assert.Empty(t, h.instances("y"))
		assert.Equal(t, "#/shell/x", h.host.Location())
		assert.Contains(t, h.eventNames(), "ConfirmationAborted")
	}

	t.Run("inline", func(t *testing.T) {
		t.Parallel()
		run(t, func(h confirm.Handle) { h.AbortRouting() })
	})

	t.Run("from another goroutine", func(t *testing.T) {
		t.Parallel()
		run(t, func(h confirm.Handle) {
			go func() {
				time.Sleep(10 * time.Millisecond)
				h.AbortRouting()
				h.ContinueRouting()
			}()
		})
	})
}

func TestRouter_AsyncConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "x"}, {key: "y"}, {key: "error"}})
	h.register("/shell/x", "x")
	h.register("/shell/y", "y")
	h.register("/shell/error", "error")
	h.configure("x", func(s *screen) {
		s.mayStop = func(h confirm.Handle) {
			go func() {
				time.Sleep(10 * time.Millisecond)
				h.ContinueRouting()
			}()
		}
	})

	h.navigate("/shell/x")
	res := h.navigate("/shell/y")
	assert.Equal(t, "y", res.Controller.Key)
}

func TestRouter_ConfirmationTimeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ConfirmTimeout = 20 * time.Millisecond
	h := newHarness(t, cfg, []screenDef{{key: "x"}, {key: "y"}, {key: "error"}})
	h.register("/shell/x", "x")
	h.register("/shell/y", "y")
	h.register("/shell/error", "error")
	h.configure("x", func(s *screen) { s.mayStop = func(confirm.Handle) {} })

	h.navigate("/shell/x")
	_, err := h.router.Navigate(context.Background(), "/shell/y")
	require.ErrorIs(t, err, navigation.ErrRoutingVetoed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "x", h.router.Current().Controller.Key)
}

func TestRouter_FilterLoop(t *testing.T) {
	t.Parallel()

	loop := navigation.FilterFunc(func(_ context.Context, r route.Route) error {
		switch r.Pattern {
		case "/shell/a":
			return route.Redirect("/shell/b")
		case "/shell/b":
			return route.Redirect("/shell/a")
		}
		return nil
	})

	h := newHarness(t, testConfig(),
		[]screenDef{{key: "start"}, {key: "a"}, {key: "b"}, {key: "error"}},
		navigation.WithFilters(loop),
	)
	h.register("/shell/start", "start")
	h.register("/shell/a", "a")
	h.register("/shell/b", "b")
	h.register("/shell/error", "error")

	h.navigate("/shell/start")
	before := h.router.Current()
	h.rec.take()

	res, err := h.router.Navigate(context.Background(), "/shell/a")
	require.ErrorIs(t, err, navigation.ErrLoopDetected)
	assert.Equal(t, []string{"/shell/a", "/shell/b"}, res.Trail)
	assert.Empty(t, h.rec.take(), "filters run before any controller is touched")
	assert.Same(t, before, h.router.Current())
	assert.Empty(t, h.instances("a"))
	assert.Empty(t, h.instances("b"))

	events := h.eventNames()
	assert.Contains(t, events, "FilterRedirected")
	assert.Contains(t, events, "LoopDetected")
	assert.Contains(t, events, "NavigationFailed")
}

func TestRouter_FilterOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  navigation.FilterFunc
		wantErr error
		wantKey string
	}{
		{
			name: "redirect",
			filter: func(_ context.Context, r route.Route) error {
				if r.Pattern == "/shell/secret" {
					return route.Redirect("/shell/login")
				}
				return nil
			},
			wantKey: "login",
		},
		{
			name:    "veto",
			filter:  func(context.Context, route.Route) error { return route.Veto("closed") },
			wantErr: navigation.ErrRoutingIntercepted,
		},
		{
			name:    "error",
			filter:  func(context.Context, route.Route) error { return errors.New("broken") },
			wantErr: navigation.ErrFilterFailed,
		},
		{
			name:    "panic",
			filter:  func(context.Context, route.Route) error { panic("boom") },
			wantErr: navigation.ErrFilterFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, testConfig(),
				[]screenDef{{key: "secret"}, {key: "login"}, {key: "error"}},
				navigation.WithFilters(tt.filter),
			)
			h.register("/shell/secret", "secret")
			h.register("/shell/login", "login")
			h.register("/shell/error", "error")

			res, err := h.router.Navigate(context.Background(), "/shell/secret")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h.router.Current())
				assert.Empty(t, h.instances("secret"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, res.Controller.Key)
			assert.Equal(t, []string{"/shell/secret", "/shell/login"}, res.Trail)
			assert.Equal(t, "#/shell/login", h.host.Location())
		})
	}
}

func TestRouter_ErrorRouteFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stayOnSide bool
		usingHash  bool
		want       string
	}{
		{"keeps unmatched token", false, true, "#/shell/nope"},
		{"stays on error route", true, true, "#/shell/error"},
		{"path form", false, false, "/shell/nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.StayOnSide = tt.stayOnSide
			cfg.UsingHash = tt.usingHash
			h := newHarness(t, cfg, []screenDef{{key: "list"}, {key: "error"}})
			h.register("/shell/list", "list")
			h.register("/shell/error", "error")

			res := h.navigate("/shell/nope")
			assert.True(t, res.Route.Fallback)
			assert.Equal(t, "error", res.Controller.Key)
			assert.Equal(t, tt.want, h.host.Location())
		})
	}

	t.Run("unresolvable error route", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.ErrorRoute = "/shell/missing"
		h := newHarness(t, cfg, []screenDef{{key: "list"}})
		h.register("/shell/list", "list")

		_, err := h.router.Navigate(context.Background(), "/shell/nope")
		require.ErrorIs(t, err, route.ErrErrorRouteUnresolvable)
		require.ErrorIs(t, err, route.ErrNoMatchingRoute)
		require.ErrorIs(t, h.router.Validate(), route.ErrErrorRouteUnresolvable)
	})
}

func TestRouter_ControllerRedirect(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{
		{key: "start"}, {key: "guarded", cacheable: true}, {key: "login"}, {key: "error"},
	})
	h.register("/shell/start", "start")
	h.register("/shell/guarded", "guarded")
	h.register("/shell/login", "login")
	h.register("/shell/error", "error")
	h.configure("guarded", func(s *screen) {
		s.bind = func(context.Context, controller.Loader) error { return route.Redirect("/shell/login") }
	})

	h.navigate("/shell/start")
	h.rec.take()

	res := h.navigate("/shell/guarded")
	assert.Equal(t, "login", res.Controller.Key)
	assert.Equal(t, []string{"/shell/guarded", "/shell/login"}, res.Trail)
	assert.Equal(t, []string{
		"start.mayStop",
		"guarded.bind",
		"login.bind",
		"login.params",
		"login.render",
		"login.handlers",
		"start.stop",
		"start.detach",
		"start.removeHandlers",
		"login.attach",
		"login.start",
	}, h.rec.take())
	assert.Contains(t, h.eventNames(), "ControllerRedirected")

	h.navigate("/shell/guarded")
	assert.Len(t, h.instances("guarded"), 2, "a redirected controller is not kept in the cache")
}

func TestRouter_ControllerRedirectLoop(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "start"}, {key: "a"}, {key: "b"}, {key: "error"}})
	h.register("/shell/start", "start")
	h.register("/shell/a", "a")
	h.register("/shell/b", "b")
	h.register("/shell/error", "error")
	h.configure("a", func(s *screen) {
		s.setParams = func(...string) error { return route.Redirect("/shell/b") }
	})
	h.configure("b", func(s *screen) {
		s.bind = func(context.Context, controller.Loader) error { return route.Redirect("/shell/a") }
	})

	h.navigate("/shell/start")
	before := h.router.Current()

	_, err := h.router.Navigate(context.Background(), "/shell/a")
	require.ErrorIs(t, err, navigation.ErrLoopDetected)
	assert.Same(t, before, h.router.Current())
	assert.Equal(t, navigation.StateAttached, before.Controller.State)
}

func TestRouter_ControllerVetoAndFailures(t *testing.T) {
	t.Parallel()

	dbDown := errors.New("db down")

	tests := []struct {
		name      string
		setup     func(s *screen)
		cfg       func(c *navigation.Config)
		wantErr   []error
		wantCalls []string
	}{
		{
			name: "veto from parameters",
			setup: func(s *screen) {
				s.setParams = func(...string) error { return route.Veto("not allowed") }
			},
			wantErr:   []error{navigation.ErrRoutingIntercepted},
			wantCalls: []string{"start.mayStop", "detail.bind", "detail.params"},
		},
		{
			name: "bind error",
			setup: func(s *screen) {
				s.bind = func(context.Context, controller.Loader) error { return dbDown }
			},
			wantErr:   []error{navigation.ErrConstructionFailure, dbDown},
			wantCalls: []string{"start.mayStop", "detail.bind"},
		},
		{
			name: "bind panic",
			setup: func(s *screen) {
				s.bind = func(context.Context, controller.Loader) error { panic("boom") }
			},
			wantErr:   []error{navigation.ErrConstructionFailure},
			wantCalls: []string{"start.mayStop", "detail.bind"},
		},
		{
			name: "bind never continues",
			setup: func(s *screen) {
				s.bind = func(context.Context, controller.Loader) error { return nil }
			},
			cfg:       func(c *navigation.Config) { c.BindTimeout = 20 * time.Millisecond },
			wantErr:   []error{navigation.ErrConstructionFailure, context.DeadlineExceeded},
			wantCalls: []string{"start.mayStop", "detail.bind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			h := newHarness(t, cfg, []screenDef{{key: "start"}, {key: "detail", cacheable: true}, {key: "error"}})
			h.register("/shell/start", "start")
			h.register("/shell/detail/*", "detail")
			h.register("/shell/error", "error")
			h.configure("detail", tt.setup)

			h.navigate("/shell/start")
			before := h.router.Current()
			h.rec.take()

			_, err := h.router.Navigate(context.Background(), "/shell/detail/1")
			for _, want := range tt.wantErr {
				require.ErrorIs(t, err, want)
			}
			assert.Equal(t, tt.wantCalls, h.rec.take())
			assert.Same(t, before, h.router.Current())
			assert.Equal(t, "#/shell/start", h.host.Location())

			h.configure("detail", nil)
			res := h.navigate("/shell/detail/1")
			assert.False(t, res.Controller.Cached, "failed construction leaves nothing in the cache")
		})
	}
}

func TestRouter_AsyncBind(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "detail"}, {key: "error"}})
	h.register("/shell/detail/*", "detail")
	h.register("/shell/error", "error")
	h.configure("detail", func(s *screen) {
		s.bind = func(_ context.Context, l controller.Loader) error {
			go func() {
				time.Sleep(10 * time.Millisecond)
				l.Continue()
				l.Continue()
			}()
			return nil
		}
	})

	res := h.navigate("/shell/detail/7")
	assert.Equal(t, []string{"7"}, h.last("detail").params)
	assert.Equal(t, "detail", res.Controller.Key)
}

func TestRouter_Composites(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T, detailCacheable bool) *harness {
		t.Helper()
		h := newHarness(t, testConfig(), []screenDef{
			{key: "detail", cacheable: detailCacheable}, {key: "list"}, {key: "form"}, {key: "toolbar"}, {key: "error"},
		})
		h.register("/shell/detail", "detail")
		h.register("/shell/list", "list")
		h.register("/shell/error", "error")
		require.NoError(t, h.router.Declare("detail",
			controller.CompositeDecl{Name: "form", Key: "form"},
			controller.CompositeDecl{Name: "toolbar", Key: "toolbar", Scope: controller.ScopeGlobal},
		))
		require.NoError(t, h.router.Declare("list",
			controller.CompositeDecl{Name: "toolbar", Key: "toolbar", Scope: controller.ScopeGlobal},
		))
		return h
	}

	t.Run("construction and teardown order", func(t *testing.T) {
		t.Parallel()
		h := setup(t, false)

		h.navigate("/shell/detail")
		assert.Equal(t, []string{
			"detail.bind",
			"form.bind",
			"toolbar.bind",
			"detail.params",
			"detail.render",
			"detail.handlers",
			"form.render",
			"form.handlers",
			"toolbar.render",
			"toolbar.handlers",
			"detail.attach",
			"form.attach",
			"toolbar.attach",
			"form.start",
			"toolbar.start",
			"detail.start",
		}, h.rec.take())

		detail := h.last("detail")
		assert.Same(t, h.last("form"), detail.composites["form"])
		assert.Same(t, h.last("toolbar"), detail.composites["toolbar"])

		h.navigate("/shell/list")
		assert.Equal(t, []string{
			"detail.mayStop",
			"form.mayStop",
			"toolbar.mayStop",
			"list.bind",
			"list.params",
			"list.render",
			"list.handlers",
			"detail.stop",
			"form.stop",
			"toolbar.deactivate",
			"detail.detach",
			"form.detach",
			"toolbar.detach",
			"detail.removeHandlers",
			"form.removeHandlers",
			"toolbar.removeHandlers",
			"list.attach",
			"toolbar.attach",
			"toolbar.activate",
			"list.start",
		}, h.rec.take())
		assert.Same(t, h.last("toolbar"), h.last("list").composites["toolbar"])

		h.navigate("/shell/detail")
		assert.Len(t, h.instances("form"), 2, "local composites die with their owner")
		assert.Len(t, h.instances("toolbar"), 1, "global composites are shared")
	})

	t.Run("cached owner keeps its composites", func(t *testing.T) {
		t.Parallel()
		h := setup(t, true)

		h.navigate("/shell/detail")
		h.navigate("/shell/list")
		h.rec.take()

		res := h.navigate("/shell/detail")
		assert.True(t, res.Controller.Cached)
		assert.Len(t, h.instances("form"), 1)
		assert.Equal(t, []string{
			"list.mayStop",
			"toolbar.mayStop",
			"detail.params",
			"list.stop",
			"toolbar.deactivate",
			"list.detach",
			"toolbar.detach",
			"list.removeHandlers",
			"toolbar.removeHandlers",
			"detail.attach",
			"form.attach",
			"toolbar.attach",
			"form.activate",
			"toolbar.activate",
			"detail.activate",
		}, h.rec.take())

		tree := h.router.Current()
		require.Len(t, tree.Controller.Children, 2)
		for _, c := range tree.Controller.Children {
			assert.Equal(t, navigation.StateAttached, c.State)
		}
	})

	t.Run("missing composite is skipped", func(t *testing.T) {
		t.Parallel()
		h := setup(t, false)
		require.NoError(t, h.router.Declare("list", controller.CompositeDecl{Name: "ghost", Key: "ghost"}))

		res := h.navigate("/shell/list")
		assert.Equal(t, "list", res.Controller.Key)
		assert.Contains(t, h.eventNames(), "CompositeNotFound")
		assert.Len(t, h.router.Current().Controller.Children, 1)
	})
}

func TestRouter_Shell(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{
		{key: "appShell"}, {key: "a"}, {key: "b"}, {key: "c"}, {key: "error"},
	})
	require.NoError(t, h.router.RegisterShell("app", "appShell"))
	h.register("/app/a", "a")
	h.register("/app/b", "b")
	h.register("/other/c", "c")
	h.register("/shell/error", "error")

	h.navigate("/app/a")
	assert.Equal(t, []string{
		"appShell.bind",
		"appShell.render",
		"appShell.handlers",
		"a.bind",
		"a.params",
		"a.render",
		"a.handlers",
		"appShell.attach",
		"appShell.start",
		"a.attach",
		"a.start",
	}, h.rec.take())

	h.navigate("/app/b")
	assert.Equal(t, []string{
		"a.mayStop",
		"appShell.mayStop",
		"b.bind",
		"b.params",
		"b.render",
		"b.handlers",
		"a.stop",
		"a.detach",
		"a.removeHandlers",
		"b.attach",
		"b.start",
	}, h.rec.take(), "the shell is kept while its id does not change")

	h.navigate("/other/c")
	assert.Equal(t, []string{
		"b.mayStop",
		"appShell.mayStop",
		"c.bind",
		"c.params",
		"c.render",
		"c.handlers",
		"b.stop",
		"b.detach",
		"b.removeHandlers",
		"appShell.stop",
		"appShell.detach",
		"appShell.removeHandlers",
		"c.attach",
		"c.start",
	}, h.rec.take())
	assert.Nil(t, h.router.Current().Shell)
}

func TestRouter_ReentrantNavigationIsQueued(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "a"}, {key: "b"}, {key: "error"}})
	h.register("/shell/a", "a")
	h.register("/shell/b", "b")
	h.register("/shell/error", "error")

	var nested error
	h.configure("a", func(s *screen) {
		s.onStart = func(s *screen) {
			nested = s.deps.Navigator.NavigateTo(context.Background(), "/shell/b")
		}
	})

	res := h.navigate("/shell/a")
	assert.Equal(t, "a", res.Controller.Key)
	require.NoError(t, nested)

	assert.Equal(t, "b", h.router.Current().Controller.Key)
	assert.False(t, h.router.Busy())
	assert.Contains(t, h.eventNames(), "NavigationQueued")

	calls := h.rec.take()
	assert.Equal(t, []string{"a.start", "a.mayStop"}, filterCalls(calls, "a")[5:7],
		"the queued navigation starts after the first one finished")
}

func TestRouter_ConcurrentNavigations(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "a"}, {key: "b", cacheable: true}, {key: "error"}})
	h.register("/shell/a", "a")
	h.register("/shell/b", "b")
	h.register("/shell/error", "error")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := "/shell/a"
			if i%2 == 0 {
				token = "/shell/b"
			}
			res, err := h.router.Navigate(context.Background(), token)
			assert.NoError(t, err)
			assert.NotNil(t, res)
		}()
	}
	wg.Wait()

	assert.False(t, h.router.Busy())
	require.NotNil(t, h.router.Current())
	assert.LessOrEqual(t, len(h.instances("b")), 1)
}

func TestRouter_Back(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "a"}, {key: "b"}, {key: "error"}})
	h.register("/shell/a", "a")
	h.register("/shell/b", "b")
	h.register("/shell/error", "error")
	ctx := context.Background()

	_, err := h.router.Back(ctx)
	require.ErrorIs(t, err, navigation.ErrNoHistory)

	h.navigate("/shell/a")
	h.navigate("/shell/b")

	res, err := h.router.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", res.Controller.Key)
	assert.Equal(t, "#/shell/a", h.host.Location())

	n, err := h.store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = h.router.Back(ctx)
	require.ErrorIs(t, err, navigation.ErrNoHistory)

	t.Run("failed back keeps history", func(t *testing.T) {
		h.navigate("/shell/b")
		h.last("b").mayStop = func(h confirm.Handle) { h.AbortRouting() }

		_, err := h.router.Back(ctx)
		require.ErrorIs(t, err, navigation.ErrRoutingVetoed)

		n, err := h.store.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		top, err := h.store.Peek(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/shell/b", top)
	})
}

func TestRouter_HistoryDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HistoryEnabled = false
	h := newHarness(t, cfg, []screenDef{{key: "a"}, {key: "error"}})
	h.register("/shell/a", "a")
	h.register("/shell/error", "error")

	h.navigate("/shell/a")
	n, err := h.store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRouter_Evict(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "detail", cacheable: true}, {key: "list"}, {key: "error"}})
	h.register("/shell/detail", "detail")
	h.register("/shell/list", "list")
	h.register("/shell/error", "error")
	ctx := context.Background()

	h.navigate("/shell/detail")
	require.ErrorIs(t, h.router.Evict(ctx, "detail"), navigation.ErrControllerActive)

	h.navigate("/shell/list")
	h.rec.take()
	require.NoError(t, h.router.Evict(ctx, "detail"))
	assert.Equal(t, []string{"detail.stop"}, h.rec.take())
	require.NoError(t, h.router.Evict(ctx, "detail"))

	res := h.navigate("/shell/detail")
	assert.False(t, res.Controller.Cached)
	assert.Len(t, h.instances("detail"), 2)
}

func TestRouter_EvictDuringConcurrentNavigations(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{
		{key: "detail", cacheable: true},
		{key: "other", cacheable: true},
		{key: "list"},
		{key: "error"},
	})
	h.register("/shell/detail", "detail")
	h.register("/shell/other", "other")
	h.register("/shell/list", "list")
	h.register("/shell/error", "error")
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tokens := []string{"/shell/detail", "/shell/other", "/shell/list"}
		for i := range 60 {
			_, err := h.router.Navigate(ctx, tokens[i%len(tokens)])
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 60 {
			key := "detail"
			if i%2 == 1 {
				key = "other"
			}
			err := h.router.Evict(ctx, key)
			if err != nil {
				assert.True(t,
					errors.Is(err, navigation.ErrRouterBusy) || errors.Is(err, navigation.ErrControllerActive),
					"unexpected error: %v", err)
			}
		}
	}()
	wg.Wait()

	assert.False(t, h.router.Busy())
	require.NotNil(t, h.router.Current())
}

func TestRouter_EvictRunsQueuedNavigations(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "detail", cacheable: true}, {key: "list"}, {key: "error"}})
	h.register("/shell/detail", "detail")
	h.register("/shell/list", "list")
	h.register("/shell/error", "error")
	ctx := context.Background()

	h.navigate("/shell/detail")
	h.navigate("/shell/list")

	var queued *navigation.Result
	h.last("detail").onStop = func() {
		var err error
		queued, err = h.router.Navigate(ctx, "/shell/detail")
		assert.NoError(t, err)
	}

	require.NoError(t, h.router.Evict(ctx, "detail"))
	require.NotNil(t, queued)
	assert.Equal(t, navigation.StatusQueued, queued.Status)
	assert.Equal(t, "detail", h.router.Current().Controller.Key)
	assert.Len(t, h.instances("detail"), 2)
	assert.False(t, h.router.Busy())
}

func TestRouter_Start(t *testing.T) {
	t.Parallel()

	newStarted := func(t *testing.T, cfg navigation.Config) *harness {
		t.Helper()
		h := newHarness(t, cfg, []screenDef{{key: "a"}, {key: "b"}, {key: "error"}})
		h.register("/shell/a", "a")
		h.register("/shell/b", "b")
		h.register("/shell/error", "error")
		return h
	}

	t.Run("host location and changes", func(t *testing.T) {
		t.Parallel()
		h := newStarted(t, testConfig())
		h.host.Change("#/shell/b")

		require.NoError(t, h.router.Start(context.Background()))
		assert.Equal(t, "b", h.router.Current().Controller.Key)

		h.host.Change("#/shell/a")
		assert.Equal(t, "a", h.router.Current().Controller.Key)

		h.router.Stop()
		h.host.Change("#/shell/b")
		assert.Equal(t, "a", h.router.Current().Controller.Key)
		assert.Equal(t, []string{"#/shell/b", "#/shell/a"}, h.host.Written())
	})

	t.Run("start route", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.StartRoute = "/shell/a"
		h := newStarted(t, cfg)

		require.NoError(t, h.router.Start(context.Background()))
		assert.Equal(t, "a", h.router.Current().Controller.Key)
		h.router.Stop()
	})

	t.Run("error route when nothing else is set", func(t *testing.T) {
		t.Parallel()
		h := newStarted(t, testConfig())

		require.NoError(t, h.router.Start(context.Background()))
		assert.Equal(t, "error", h.router.Current().Controller.Key)
		h.router.Stop()
	})

	t.Run("invalid error route", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.ErrorRoute = ""
		h := newStarted(t, cfg)

		require.ErrorIs(t, h.router.Start(context.Background()), route.ErrErrorRouteUnresolvable)
		assert.Nil(t, h.router.Current())
	})
}

func TestRouter_Diagnostics(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "a"}, {key: "error"}})
	h.register("/shell/a/*", "a")
	h.register("/shell/error", "error")

	h.navigate("/shell/a/1")
	assert.Equal(t, []string{
		"RouteMatched",
		"ControllerCreated",
		"ControllerAttached",
		"NavigationCompleted",
	}, h.eventNames())

	h.mu.Lock()
	completed, ok := h.payload[len(h.payload)-1].(navigation.NavigationCompleted)
	h.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, "a", completed.Key)
	assert.Equal(t, "/shell/a/1", completed.Token)
	assert.False(t, completed.Cached)
}

func TestRouter_CancelledContext(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), []screenDef{{key: "a"}, {key: "error"}})
	h.register("/shell/a", "a")
	h.register("/shell/error", "error")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.router.Navigate(ctx, "/shell/a")
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, h.router.Current())
}
