// Package handler is the HTTP layer. Handlers bind and validate requests
// through the generic pipeline in base.go and delegate to the services.
package handler
