package utils

import (
	"go/types"

	"github.com/sirupsen/logrus"
)

func DatabaseURLOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:        "database-url",
		Usage:       "Database connection URL.",
		OptType:     types.String,
		ConfigKey:   configKey,
		FlagDefault: "postgres://postgres@localhost:5432/registry-backend?sslmode=disable",
		Required:    true,
	}
}

func LogLevelOption(configKey *logrus.Level) *ConfigOption {
	return &ConfigOption{
		Name:           "log-level",
		Usage:          `The log level used in this project. Options: "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", or "PANIC".`,
		OptType:        types.String,
		FlagDefault:    "INFO",
		ConfigKey:      configKey,
		CustomSetValue: SetConfigOptionLogLevel,
		Required:       false,
	}
}

func SentryDSNOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:      "sentry-dsn",
		Usage:     "The Sentry DSN errors are reported to. Leave empty to log errors to stdout instead.",
		OptType:   types.String,
		ConfigKey: configKey,
		Required:  false,
	}
}

func JWTSecretOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:      "jwt-secret",
		Usage:     "The shared secret used to sign and verify actor bearer tokens.",
		OptType:   types.String,
		ConfigKey: configKey,
		Required:  true,
	}
}
