package config

import (
	"time"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[fxconvert]"`
}

//revive:disable
type ExchangeRateApi struct {
	ApiUrl      string        `envconfig:"API_URL" default:"https://api.exchangerate-api.com/v4/latest"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

//revive:enable
type ExchangeRateProviders struct {
	ExchangeRateApi *ExchangeRateApi `envconfig:"EXCHANGERATE"`
}

// ExchangeRateCache configures the shared rate cache. When Url is set the
// cache lives in Redis, otherwise in process memory.
type ExchangeRateCache struct {
	TTL    time.Duration `envconfig:"TTL" default:"30m"`
	Size   int           `envconfig:"SIZE" default:"100"`
	Prefix string        `envconfig:"PREFIX" default:"exr:rate:"`
	Url    string        `envconfig:"URL"`
}

type Session struct {
	Expiration  time.Duration `envconfig:"EXPIRATION" default:"1h"`
	MaxSessions int           `envconfig:"MAX_SESSIONS" default:"10000"`
	CookieName  string        `envconfig:"COOKIE_NAME" default:"fxconvert_session"`
}

type History struct {
	Limit int `envconfig:"LIMIT" default:"5"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type App struct {
	Env                      string                 `envconfig:"APP_ENV" default:"development"`
	Server                   *Server                `envconfig:"SERVER"`
	Log                      *Log                   `envconfig:"LOG"`
	ExchangeRateCache        *ExchangeRateCache     `envconfig:"EXCHANGE_RATE_CACHE"`
	ExchangeRateAPIProviders *ExchangeRateProviders `envconfig:"EXCHANGE_RATE_PROVIDER"`
	Session                  *Session               `envconfig:"SESSION"`
	History                  *History               `envconfig:"HISTORY"`
	RateLimit                *RateLimit             `envconfig:"RATE_LIMIT"`
}
