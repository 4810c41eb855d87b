// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts the signup and profile services to
// HTTP and declares, for every route, whether it is public, needs an
// authenticated identity, or needs an approved account.
package api
