// Package mocks provides hand-written test doubles for the gateway's
// collaborators: the identity provider, the profile stores and the event
// emitter.
//
// Each mock has optional function fields (XxxFn) that override behavior
// entirely; when unset, the mock falls back to a small in-memory
// implementation, with XxxError fields to inject failures. Mocks are safe
// for concurrent use and record calls so tests can assert on side effects.
package mocks
