// Package service contains the application-level use cases behind the HTTP
// handlers. It coordinates the domain types and the store interfaces and
// never depends on a concrete storage implementation.
//
// Account creation lives in the signup subpackage; this package holds the
// profile read and update operations.
package service
