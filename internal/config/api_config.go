package config

import "time"

const (
	apiBaseURLVar  = "API_BASE_URL"
	apiTimeoutVar  = "API_TIMEOUT"
	defaultBaseURL = "https://pdpkitchen.diyarbek.uz/api/"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetMaxAttempts() int
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the origin every endpoint path is relative to
func (API) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, defaultBaseURL)
}

// GetAPITimeout returns the per attempt HTTP timeout. Zero means no deadline.
func (API) GetAPITimeout() time.Duration {
	return GetDurationEnv(apiTimeoutVar, 0)
}

func (API) GetMaxAttempts() int {
	return 3
}
