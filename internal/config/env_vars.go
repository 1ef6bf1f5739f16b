package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar  = "APP_NAME"
	appVerVar   = "APP_VERSION"
	appEnvVar   = "APP_ENV"
	logLevelVar = "LOG_LEVEL"
	credFileVar = "CREDENTIALS_FILE"
	developEnv  = "development"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "PawBook Admin")
}

func (EnvVars) GetAppVersion() string {
	return GetEnv(appVerVar, "1.0.0")
}

func (EnvVars) GetEnv() string {
	return GetEnv(appEnvVar, developEnv)
}

// GetLogLevel returns the configured log level. When unset, development
// defaults to debug and every other environment to error, matching the
// dashboard's log gating.
func (e EnvVars) GetLogLevel() string {
	level := GetEnv(logLevelVar, "")
	if level != "" {
		return level
	}
	if e.GetEnv() == developEnv {
		return "debug"
	}
	return "error"
}

// GetCredentialsFile returns the path of the persisted credential store.
func (EnvVars) GetCredentialsFile() string {
	if file := GetEnv(credFileVar, ""); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".adminctl-credentials.json"
	}
	return filepath.Join(home, ".adminctl", "credentials.json")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
