// Package testutils builds a fully wired Fiber app around a stub rate
// provider for handler tests.
package testutils

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/fxconvert/infra/initializer"
	infra_provider "github.com/amirasaad/fxconvert/infra/provider"
	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/amirasaad/fxconvert/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// DefaultRates are the rates served by NewStubProvider.
var DefaultRates = map[string]float64{
	"USD:EUR": 0.9123,
	"USD:GBP": 0.79,
	"USD:JPY": 151.25,
	"USD:CAD": 1.36,
	"EUR:USD": 1.0961,
	"EUR:GBP": 0.8581,
	"EUR:JPY": 162.4,
	"EUR:CAD": 1.4803,
}

// NewStubProvider returns a stub serving DefaultRates.
func NewStubProvider() *infra_provider.StubExchangeRate {
	return infra_provider.NewStubExchangeRate(DefaultRates)
}

// NewTestConfig returns a config with the production defaults and an in
// memory cache.
func NewTestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text", TimeFormat: time.DateTime},
		ExchangeRateCache: &config.ExchangeRateCache{
			TTL:    30 * time.Minute,
			Size:   100,
			Prefix: "exr:rate:",
		},
		ExchangeRateAPIProviders: &config.ExchangeRateProviders{
			ExchangeRateApi: &config.ExchangeRateApi{
				ApiUrl:      "http://127.0.0.1:0",
				HTTPTimeout: time.Second,
			},
		},
		Session: &config.Session{
			Expiration:  time.Hour,
			MaxSessions: 100,
			CookieName:  "fxconvert_session",
		},
		History:   &config.History{Limit: 5},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
}

// SetupTestApp wires the app around stub with a fresh metrics registry.
func SetupTestApp(
	t *testing.T,
	stub *infra_provider.StubExchangeRate,
	cfg *config.App,
) (*fiber.App, *app.App) {
	t.Helper()
	if cfg == nil {
		cfg = NewTestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	deps, err := initializer.NewDeps(cfg, stub, metrics.New(reg), logger)
	require.NoError(t, err)
	deps.Gatherer = reg

	a := app.New(deps, cfg)
	t.Cleanup(func() { _ = a.Close() })
	return webapi.SetupApp(a), a
}

// MakeRequest sends a request through app.Test. cookie is sent as the
// Cookie header when not empty.
func MakeRequest(app *fiber.App, method, url, body, cookie string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if cookie != "" {
		req.Header.Set(fiber.HeaderCookie, cookie)
	}
	resp, _ := app.Test(req, -1)
	return resp
}

// SessionCookie returns the "name=value" pair of the named cookie set by
// resp, or an empty string.
func SessionCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Name + "=" + c.Value
		}
	}
	return ""
}

// Serve runs app on a loopback listener until the test ends and returns its
// base URL. Unlike app.Test, clients can keep connections alive.
func Serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(time.Second) })
	return "http://" + ln.Addr().String()
}
