package testutils

import (
	"os"
	"testing"
)

// Environment variables that enable the integration tests against live services.
const (
	MongoURIEnv    = "STOCKPILE_TEST_MONGO_URI"
	PostgresURLEnv = "STOCKPILE_TEST_DATABASE_URL"
	RedisURLEnv    = "STOCKPILE_TEST_REDIS_URL"
)

// RequireEnv returns the value of name, skipping the test when it is unset.
func RequireEnv(t *testing.T, name string) string {
	t.Helper()

	value := os.Getenv(name)
	if value == "" {
		t.Skipf("%s not set", name)
	}
	return value
}
