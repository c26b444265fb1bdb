package env

import (
	"os"
	"path/filepath"
)

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// ConfigPath returns a path under the user's config directory for the named
// application file, falling back to the working directory.
func ConfigPath(app, file string) string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return file
	}
	return filepath.Join(dir, app, file)
}
