package server

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/cptool/pkg/utils"
)

const (
	defaultPort          = "8080"
	defaultMaxInputBytes = 64 << 20
)

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string

	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit      float64
	RateLimitBurst int

	// MaxInputBytes bounds the request body of a validation.
	MaxInputBytes int64
}

// LoadConfig reads the server settings from the environment.
// The .env file, if any, is loaded by the caller.
func LoadConfig() (*Config, error) {
	useHttp2 := os.Getenv("USE_HTTP2") == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.SplitList(os.Getenv("CORS_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	rateLimit, err := parseFloat("RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	burst, err := parseInt("RATE_LIMIT_BURST", 0)
	if err != nil {
		return nil, err
	}
	if burst == 0 && rateLimit > 0 {
		burst = int64(defaultBurst(rateLimit))
	}
	maxInput, err := parseInt("MAX_INPUT_BYTES", defaultMaxInputBytes)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           port,
		UseHttp2:       useHttp2,
		CorsOrigins:    origins,
		RateLimit:      rateLimit,
		RateLimitBurst: int(burst),
		MaxInputBytes:  maxInput,
	}, nil
}

// defaultBurst allows two seconds worth of requests, and at least one so a
// fractional rate still admits traffic.
func defaultBurst(rateLimit float64) int {
	return max(1, int(math.Ceil(rateLimit*2)))
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

func parseFloat(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative number", key, raw)
	}
	return v, nil
}

func parseInt(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, raw)
	}
	return v, nil
}
