package simple

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/navigator/core/config"
	"github.com/dmitrymomot/navigator/core/controller"
	"github.com/dmitrymomot/navigator/core/event"
	"github.com/dmitrymomot/navigator/core/history"
	"github.com/dmitrymomot/navigator/core/host"
	"github.com/dmitrymomot/navigator/core/logger"
	"github.com/dmitrymomot/navigator/core/manifest"
	"github.com/dmitrymomot/navigator/core/navigation"
	"github.com/dmitrymomot/navigator/integration/database/redis"
)

// App wires configuration, logging, the event bus, history and the router.
type App struct {
	config    Config
	factory   *controller.Factory
	manifest  *manifest.Manifest
	router    *navigation.Router
	host      host.Host
	history   history.Store
	transport *event.ChannelTransport
	publisher *event.Publisher
	redis     *goredis.Client
	context   *Context
	logger    *slog.Logger
	filters   []navigation.Filter
	handlers  []event.Handler
}

type AppOption func(*App) error

// NewApp builds an application around factory. Configuration is read from the environment.
func NewApp(ctx context.Context, factory *controller.Factory, opts ...AppOption) (*App, error) {
	if factory == nil {
		return nil, errors.New("factory cannot be nil")
	}

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{
		config:  cfg,
		factory: factory,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(app.config)
	}

	if app.manifest == nil && app.config.Manifest != "" {
		m, err := manifest.LoadFile(app.config.Manifest)
		if err != nil {
			return nil, err
		}
		app.manifest = m
	}
	if app.manifest != nil {
		app.manifest.Configure(&app.config.Navigation)
		if app.config.Navigation.ErrorRoute == "" {
			return nil, fmt.Errorf("%w: error_route or NAVIGATOR_ERROR_ROUTE must be set", manifest.ErrInvalidManifest)
		}
	}

	app.transport = event.NewChannelTransport(app.config.EventBuffer,
		event.WithChannelLogger(app.logger),
		event.WithChannelHandlers(append([]event.Handler{diagnostics(app.logger)}, app.handlers...)...),
	)
	app.publisher = event.NewPublisher(app.transport, event.WithPublisherLogger(app.logger))
	app.context = newContext(app.config.AppName, app.logger, app.publisher)

	if app.history == nil {
		store, err := app.newHistory(ctx)
		if err != nil {
			return nil, errors.Join(err, app.Close())
		}
		app.history = store
	}

	if app.host == nil {
		app.host = host.NewMemory("")
	}

	router, err := navigation.New(factory,
		navigation.WithConfig(app.config.Navigation),
		navigation.WithLogger(app.logger),
		navigation.WithPublisher(app.publisher),
		navigation.WithHost(app.host),
		navigation.WithHistory(app.history),
		navigation.WithContext(app.context),
		navigation.WithFilters(app.filters...),
	)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}
	if app.manifest != nil {
		if err := app.manifest.Apply(router); err != nil {
			return nil, errors.Join(err, app.Close())
		}
		if err := router.Validate(); err != nil {
			return nil, errors.Join(err, app.Close())
		}
	}
	app.router = router

	return app, nil
}

// Router returns the application router.
func (a *App) Router() *navigation.Router {
	return a.router
}

// Context returns the application context shared by controllers.
func (a *App) Context() *Context {
	return a.context
}

// Host returns the host location bar.
func (a *App) Host() host.Host {
	return a.host
}

// Run delivers events and starts the router, then blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.transport.Run(ctx)
	})

	g.Go(func() error {
		if err := a.router.Start(ctx); err != nil {
			return fmt.Errorf("start router: %w", err)
		}
		a.logger.InfoContext(ctx, "application started", slog.String("app", a.config.AppName))
		<-ctx.Done()
		a.router.Stop()
		return nil
	})

	err := g.Wait()
	if cerr := a.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the event bus and the Redis connection.
func (a *App) Close() error {
	var errs []error
	if err := a.transport.Close(); err != nil && !errors.Is(err, event.ErrTransportClosed) {
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
		a.redis = nil
	}
	return errors.Join(errs...)
}

func (a *App) newHistory(ctx context.Context) (history.Store, error) {
	switch a.config.History {
	case "", HistoryMemory:
		return history.NewMemoryStore(a.config.HistoryLimit), nil
	case HistoryRedis:
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		a.redis = client
		return history.NewRedisStore(client, a.config.HistoryKey, history.WithRedisLimit(a.config.HistoryLimit)), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", a.config.History)
	}
}

func newLogger(cfg Config) *slog.Logger {
	profile := logger.WithDevelopment(cfg.AppName)
	if cfg.Env == "production" {
		profile = logger.WithProduction(cfg.AppName)
	}
	return logger.New(profile, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
}

// diagnostics logs every navigation event at debug level.
func diagnostics(log *slog.Logger) event.Handler {
	return event.NewHandler(event.All, func(ctx context.Context, evt event.Event) error {
		log.DebugContext(ctx, "navigation event",
			logger.Event(evt.Name),
			slog.String("event_id", evt.ID),
			slog.Any("payload", evt.Payload),
		)
		return nil
	})
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithHost(h host.Host) AppOption {
	return func(app *App) error {
		if h == nil {
			return errors.New("host cannot be nil")
		}
		app.host = h
		return nil
	}
}

func WithHistory(store history.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("history store cannot be nil")
		}
		app.history = store
		return nil
	}
}

func WithManifest(m *manifest.Manifest) AppOption {
	return func(app *App) error {
		if m == nil {
			return errors.New("manifest cannot be nil")
		}
		app.manifest = m
		return nil
	}
}

func WithFilters(filters ...navigation.Filter) AppOption {
	return func(app *App) error {
		app.filters = append(app.filters, filters...)
		return nil
	}
}

// WithEventHandlers subscribes handlers to the navigation events.
func WithEventHandlers(handlers ...event.Handler) AppOption {
	return func(app *App) error {
		app.handlers = append(app.handlers, handlers...)
		return nil
	}
}
