package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath, looking in the
// working directory and then its parents, and fills App from the
// environment. Without arguments it looks for ".env". Missing files are not
// an error; the process environment and defaults still apply.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		envFilePath = []string{".env"}
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	found, err := findEnvFile(wd, envFilePath...)
	if err != nil {
		logger.Info("No environment file found, using process environment", "candidates", envFilePath)
		return loadFromEnv()
	}
	logger.Info("Loading environment from file", "path", found)
	if err := godotenv.Load(found); err != nil {
		logger.Error("Failed to load environment file", "path", found, "error", err)
	}
	return loadFromEnv()
}

// findEnvFile returns the path of the first name that exists in dir or one
// of its parents. Names are tried in order; absolute names are checked as
// given.
func findEnvFile(dir string, names ...string) (string, error) {
	for _, name := range names {
		if filepath.IsAbs(name) {
			if _, err := os.Stat(name); err == nil {
				return name, nil
			}
			continue
		}
		for curr := dir; ; {
			candidate := filepath.Join(curr, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(curr)
			if parent == curr {
				break
			}
			curr = parent
		}
	}
	return "", os.ErrNotExist
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"server_port", cfg.Server.Port,
		"exchange_api_url", cfg.ExchangeRateAPIProviders.ExchangeRateApi.ApiUrl,
		"exchange_api_timeout", cfg.ExchangeRateAPIProviders.ExchangeRateApi.HTTPTimeout,
		"exchange_cache_ttl", cfg.ExchangeRateCache.TTL,
		"exchange_cache_size", cfg.ExchangeRateCache.Size,
		"exchange_cache_url", maskURL(cfg.ExchangeRateCache.Url),
		"history_limit", cfg.History.Limit,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

// maskURL hides credentials embedded in a connection URL.
func maskURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return raw
	}
	if user, _, hasPass := strings.Cut(creds, ":"); hasPass {
		return scheme + "://" + user + ":****@" + host
	}
	return scheme + "://****@" + host
}
