// Package identity talks to the external identity provider. It verifies
// bearer tokens (Verifier) and, with the provider's service-role key, creates
// and deletes login identities during signup (Admin).
//
// Three Verifier implementations are provided: GoTrueClient introspects the
// token against the provider, JWTVerifier checks HS256 access tokens locally,
// and OIDCVerifier checks ID tokens against an OpenID Connect issuer.
package identity
