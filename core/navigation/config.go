package navigation

import "time"

// Config holds the router settings.
type Config struct {
	// UsingHash writes locations as "#/shell/..." instead of "/shell/...".
	UsingHash bool `env:"NAVIGATOR_USING_HASH" envDefault:"true"`
	// UsingColonParams enables ":name" parameter slots in patterns.
	UsingColonParams bool `env:"NAVIGATOR_USING_COLON_PARAMS" envDefault:"false"`
	// StayOnSide rewrites the location to the error route when it is used as a fallback.
	StayOnSide bool `env:"NAVIGATOR_STAY_ON_SIDE" envDefault:"false"`
	// HistoryEnabled records every committed location.
	HistoryEnabled bool `env:"NAVIGATOR_HISTORY_ENABLED" envDefault:"true"`
	// StartRoute is used when the host has no location at start.
	StartRoute string `env:"NAVIGATOR_START_ROUTE"`
	// ErrorRoute is displayed when a token matches no pattern.
	ErrorRoute string `env:"NAVIGATOR_ERROR_ROUTE"`
	// MaxRedirects bounds a redirect chain. Zero means DefaultMaxRedirects.
	MaxRedirects int `env:"NAVIGATOR_MAX_REDIRECTS" envDefault:"16"`
	// BindTimeout bounds the wait for a controller's loader. Zero waits for the context.
	BindTimeout time.Duration `env:"NAVIGATOR_BIND_TIMEOUT" envDefault:"30s"`
	// ConfirmTimeout bounds the confirmation phase. Zero waits for the context.
	ConfirmTimeout time.Duration `env:"NAVIGATOR_CONFIRM_TIMEOUT" envDefault:"30s"`
}

// DefaultMaxRedirects is used when Config.MaxRedirects is not set.
const DefaultMaxRedirects = 16
