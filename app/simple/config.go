package simple

import "github.com/dmitrymomot/navigator/core/navigation"

// History backends.
const (
	HistoryMemory = "memory"
	HistoryRedis  = "redis"
)

type Config struct {
	Navigation navigation.Config

	AppName      string `env:"APP_NAME" envDefault:"navigator"`
	Env          string `env:"APP_ENV" envDefault:"development"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Manifest     string `env:"NAVIGATOR_MANIFEST"`
	History      string `env:"NAVIGATOR_HISTORY_BACKEND" envDefault:"memory"`
	HistoryKey   string `env:"NAVIGATOR_HISTORY_KEY" envDefault:"navigator:history"`
	HistoryLimit int    `env:"NAVIGATOR_HISTORY_LIMIT" envDefault:"100"`
	EventBuffer  int    `env:"NAVIGATOR_EVENT_BUFFER" envDefault:"256"`
}
