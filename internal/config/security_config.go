package config

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetLoginRatePerMinute() int
	GetTrustProxy() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetEnableRateLimiting() bool {
	return GetBoolEnv("ENABLE_RATE_LIMITING", true)
}

// GetLoginRatePerMinute is the number of sign-in attempts allowed per client IP
func (Security) GetLoginRatePerMinute() int {
	return GetIntEnv("LOGIN_RATE_PER_MINUTE", 10)
}

// GetTrustProxy makes client IPs come from X-Forwarded-For. Only enable it
// behind a proxy that appends the connecting address to that header.
func (Security) GetTrustProxy() bool {
	return GetBoolEnv("TRUST_PROXY", false)
}
