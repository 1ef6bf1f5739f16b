package config

import (
	"strconv"
	"time"
)

const (
	baseURLVar        = "API_BASE_URL"
	requestTimeoutVar = "API_TIMEOUT"
	refreshTimeoutVar = "REFRESH_TIMEOUT"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the base URL of the booking platform API.
func (API) GetAPIBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:3000/api")
}

// GetRequestTimeout returns the timeout applied to every API request.
// The env value is milliseconds, as the dashboard configured it.
func (API) GetRequestTimeout() time.Duration {
	return durationFromMillisEnv(requestTimeoutVar, 10*time.Second)
}

// GetRefreshTimeout bounds the token refresh call so a hung refresh
// cannot stall queued requests.
func (API) GetRefreshTimeout() time.Duration {
	return durationFromMillisEnv(refreshTimeoutVar, 5*time.Second)
}

func durationFromMillisEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	millis, err := strconv.Atoi(raw)
	if err != nil || millis <= 0 {
		return defaultValue
	}
	return time.Duration(millis) * time.Millisecond
}
