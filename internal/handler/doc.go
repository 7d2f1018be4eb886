// Package handler implements the site's HTTP handlers and the middleware
// wrapped around them: request IDs, access logging and metrics.
package handler
