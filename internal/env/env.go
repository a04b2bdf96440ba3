// Package env wraps environment configuration for the app. Values come
// from the process environment, optionally seeded from a .env file.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadFromFile loads a .env file into the process environment. A missing
// file is not an error so deployed environments can rely on real env vars.
func LoadFromFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// GetAsString returns the value of the named variable, empty when unset.
func GetAsString(key string) string {
	return os.Getenv(key)
}

// GetAsStringElseAlt returns the value of the named variable, or alt when
// unset or empty.
func GetAsStringElseAlt(key, alt string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return alt
}

// GetAsIntElseAlt returns the named variable parsed as an int, or alt when
// unset or unparseable.
func GetAsIntElseAlt(key string, alt int) int {
	v := os.Getenv(key)
	if v == "" {
		return alt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return alt
	}
	return n
}
