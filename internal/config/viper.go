// Package config reads settings that may come from the environment or
// from the viper configuration.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// FirstString returns the first non-empty GetString value among keys.
func FirstString(keys ...string) string {
	for _, key := range keys {
		if v := GetString(key); v != "" {
			return v
		}
	}
	return ""
}
