// Package testhelper silences logging in tests. Import it for its side effect.
package testhelper

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// init disables logging for tests unless DIET_TEST_LOG is set
func init() {
	if testing.Testing() && os.Getenv("DIET_TEST_LOG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
