// Package middleware holds the global and route level Echo middleware:
// authentication, request logging, tracing, rate limiting and the error
// funnel every handler error ends in.
package middleware
