// Package httpserver hosts the site's handler on a validated address with
// request timeouts and graceful shutdown.
package httpserver
