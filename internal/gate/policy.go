package gate

import (
	"fmt"
	"sort"
	"strings"
)

// Tier is the access level a route requires.
// The zero value is the most restrictive tier.
type Tier int

const (
	// TierApproved routes require an approved account.
	TierApproved Tier = iota
	// TierAuthenticated routes require a verified identity but bypass approval.
	TierAuthenticated
	// TierPublic routes bypass authentication.
	TierPublic
)

// String returns the tier name used in logs.
func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierAuthenticated:
		return "authenticated"
	case TierApproved:
		return "approved"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Route is one entry of a declarative route table.
type Route struct {
	Method  string
	Pattern string
	Tier    Tier
}

// Key returns the policy key of the route.
func (r Route) Key() string {
	return RouteKey(r.Method, r.Pattern)
}

// RouteKey builds the policy key for a method and route pattern,
// e.g. "GET /profiles/{id}".
func RouteKey(method, pattern string) string {
	return strings.ToUpper(method) + " " + pattern
}

// Policy holds the authentication-bypass and approval-bypass route sets.
// The sets never overlap.
type Policy struct {
	authBypass     map[string]struct{}
	approvalBypass map[string]struct{}
}

// NewPolicy builds a Policy from route keys. It fails if a key appears in
// both sets.
func NewPolicy(authBypass, approvalBypass []string) (Policy, error) {
	p := Policy{
		authBypass:     make(map[string]struct{}, len(authBypass)),
		approvalBypass: make(map[string]struct{}, len(approvalBypass)),
	}
	for _, key := range authBypass {
		p.authBypass[key] = struct{}{}
	}

	var overlap []string
	for _, key := range approvalBypass {
		if _, ok := p.authBypass[key]; ok {
			overlap = append(overlap, key)
			continue
		}
		p.approvalBypass[key] = struct{}{}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return Policy{}, fmt.Errorf("routes in both bypass sets: %s", strings.Join(overlap, ", "))
	}

	return p, nil
}

// PolicyFromRoutes derives a Policy from a declarative route table.
// A route key declared twice with different tiers is rejected.
func PolicyFromRoutes(routes []Route) (Policy, error) {
	seen := make(map[string]Tier, len(routes))
	var authBypass, approvalBypass []string

	for _, r := range routes {
		key := r.Key()
		if prev, ok := seen[key]; ok {
			if prev != r.Tier {
				return Policy{}, fmt.Errorf("route %s declared as both %s and %s", key, prev, r.Tier)
			}
			continue
		}
		seen[key] = r.Tier

		switch r.Tier {
		case TierPublic:
			authBypass = append(authBypass, key)
		case TierAuthenticated:
			approvalBypass = append(approvalBypass, key)
		case TierApproved:
		default:
			return Policy{}, fmt.Errorf("route %s has unknown tier %s", key, r.Tier)
		}
	}

	return NewPolicy(authBypass, approvalBypass)
}

// BypassesAuthentication reports whether the route needs no identity.
func (p Policy) BypassesAuthentication(key string) bool {
	_, ok := p.authBypass[key]
	return ok
}

// BypassesApproval reports whether the route needs an identity but no approval.
func (p Policy) BypassesApproval(key string) bool {
	_, ok := p.approvalBypass[key]
	return ok
}
