package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	APIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAppVersion() string
	GetEnv() string
	GetLogLevel() string
	GetCredentialsFile() string
}

func New() Config {
	// Missing .env files are fine, real environment variables still apply.
	_ = godotenv.Load()
	return mainConfig{}
}

type mainConfig struct {
	EnvVars
	API
}
