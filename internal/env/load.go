package env

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads KEY=VALUE files (e.g. ".env") into the process environment. Variables already set
// win over the files. Missing files are skipped; that is not an error.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Backend holds the hosted backend settings.
type Backend struct {
	URL       string
	AnonKey   string
	PushToken string
}

// Configured reports whether a backend URL is set.
func (b Backend) Configured() bool {
	return b.URL != ""
}

// ReadBackend reads BACKEND_URL, BACKEND_ANON_KEY and PUSH_TOKEN.
func ReadBackend() Backend {
	return Backend{
		URL:       strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_URL")), "/"),
		AnonKey:   strings.TrimSpace(os.Getenv("BACKEND_ANON_KEY")),
		PushToken: strings.TrimSpace(os.Getenv("PUSH_TOKEN")),
	}
}
