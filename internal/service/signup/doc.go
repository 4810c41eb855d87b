// Package signup creates accounts across the identity provider and the
// profile store, which share no transaction. Each signup is a saga: an
// ordered list of steps with compensating deletes, so a failure part way
// through leaves no identity without profiles and no profile without an
// identity.
package signup
