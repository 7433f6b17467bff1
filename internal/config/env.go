package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFiles are read, in order, from the working directory.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads the EnvFiles found in dir into the process environment.
// Variables already set are never overwritten, so the real environment wins
// over .env and .env wins over .env.local. It returns the files loaded.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
