// Package errs defines the HTTPError shape every failing request is rendered
// with, plus constructors for the statuses the handlers return.
package errs
