package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/milk9111/motionseq/logging"
)

const envPrefix = "MSEQ_"

func envLogger() zerolog.Logger {
	return logging.WithComponent("config")
}

// ParseString reads an environment variable, falling back to defaultValue
// when it is unset or empty.
func ParseString(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		log := envLogger()
		log.Debug().Str("key", key).Str("source", "environment").Msg("using environment variable")
		return v
	}
	return defaultValue
}

func ParseInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log := envLogger()
		log.Warn().Str("key", key).Str("value", v).Int("default", defaultValue).Msg("invalid integer in environment, using default")
		return defaultValue
	}
	log := envLogger()
	log.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}

func ParseBool(key string, defaultValue bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	log := envLogger()
	log.Warn().Str("key", key).Str("value", v).Bool("default", defaultValue).Msg("invalid boolean in environment, using default")
	return defaultValue
}
