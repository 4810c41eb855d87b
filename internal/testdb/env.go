package testdb

import (
	"net/url"
	"os"
)

// urlEnvVars are checked in order; the first non-empty one wins.
var urlEnvVars = []string{"DATABASE_URL", "ROGUETWO_TEST_DB_URL"}

// DatabaseURL returns the connection string for integration tests, or ""
// when none is configured.
func DatabaseURL() string {
	for _, name := range urlEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkip reports whether database tests should be skipped.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// isCI reports whether the tests run under a CI system. In CI a missing
// database is a failure rather than a skip.
func isCI() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// maskURL hides the password of a connection string for log output.
func maskURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
