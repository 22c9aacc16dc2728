package config

import "time"

type SessionConfig interface {
	GetCookieSecret() string
	GetRefreshCookieMaxAge() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetCookieSecret returns the secret used to seal the refresh token cookie.
// An empty secret leaves cookies unsealed.
func (Session) GetCookieSecret() string {
	return GetEnv("COOKIE_SECRET", "")
}

func (Session) GetRefreshCookieMaxAge() time.Duration {
	return GetDurationEnv("REFRESH_COOKIE_MAX_AGE", 7*24*time.Hour)
}
