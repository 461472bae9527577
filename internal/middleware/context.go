// Package middleware provides HTTP middleware for authentication, language
// detection, rate limiting and request hardening.
package middleware

// ContextKey is the type used for request context keys set by this package.
type ContextKey string
