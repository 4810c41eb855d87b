// Package postgres provides PostgreSQL implementations of the profile stores
// defined in the internal/store package, together with the embedded goose
// migrations that create the profiles, profiles_private and
// subscription_levels tables.
package postgres
