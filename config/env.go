package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvAs parses key with parse and returns defaultVal when the variable
// is unset, blank or unparseable.
func getEnvAs[T any](key string, defaultVal T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultVal
	}
	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvAsString(key string, defaultVal string) string {
	return getEnvAs(key, defaultVal, func(s string) (string, error) { return s, nil })
}

func getEnvAsInt(key string, defaultVal int) int {
	return getEnvAs(key, defaultVal, strconv.Atoi)
}

func getEnvAsBool(key string, defaultVal bool) bool {
	return getEnvAs(key, defaultVal, strconv.ParseBool)
}

// getEnvAsTimeDuration accepts Go durations ("750ms", "2m") and bare seconds ("30").
func getEnvAsTimeDuration(key string, defaultVal time.Duration) time.Duration {
	return getEnvAs(key, defaultVal, func(s string) (time.Duration, error) {
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		secs, err := strconv.Atoi(s)
		return time.Duration(secs) * time.Second, err
	})
}

// getEnvAsSlice splits a comma separated list, dropping empty items.
func getEnvAsSlice(key string, defaultVal []string) []string {
	return getEnvAs(key, defaultVal, func(s string) ([]string, error) {
		result := make([]string, 0)
		for part := range strings.SplitSeq(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result, nil
	})
}
