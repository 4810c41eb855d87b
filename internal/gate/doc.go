// Package gate decides whether an authenticated caller may use a route.
//
// Every route declares a Tier. Public routes skip authentication entirely,
// authenticated routes only need a verified identity, and approved routes
// additionally require the caller's private profile to be approved. The
// first two tiers form the two bypass sets of a Policy; everything else is
// gated on approval.
package gate
