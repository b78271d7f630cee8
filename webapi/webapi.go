// Package webapi provides the HTTP API of the converter.
// It is organized into sub-packages:
// - currency: currency list and exchange rate endpoints
// - conversion: conversion and session history endpoints
// - common: response envelope, problem details and validation
package webapi

import (
	"context"
	"errors"
	"strings"

	_ "github.com/amirasaad/fxconvert/docs" // registers the swagger doc
	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/webapi/common"
	conversionweb "github.com/amirasaad/fxconvert/webapi/conversion"
	currencyweb "github.com/amirasaad/fxconvert/webapi/currency"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	cfg := app.Config
	exchangeSvc := app.ExchangeService

	fiberApp := fiber.New(fiber.Config{
		// path params end up in cached rates and metric labels
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	// Configure rate limiting middleware
	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				// Take the first IP in the chain
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(requestContext)

	sessions := session.New(session.Config{
		Expiration:     cfg.Session.Expiration,
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieSecure:   cfg.Server.Scheme == "https",
	})

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("Currency converter is running! 💱")
		},
	)
	fiberApp.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(app.Deps.Gatherer, promhttp.HandlerOpts{}),
	))

	currencyweb.Routes(fiberApp, exchangeSvc)
	conversionweb.Routes(fiberApp, exchangeSvc, sessions, app.Deps.Histories)
	return fiberApp
}

// requestContext gives handlers a context that is cancelled when the server
// starts shutting down.
func requestContext(c *fiber.Ctx) error {
	ctx, cancel := context.WithCancel(c.UserContext())
	defer cancel()
	stop := context.AfterFunc(c.Context(), cancel)
	defer stop()

	c.SetUserContext(ctx)
	return c.Next()
}
