// Package config handles loading and validation of the site configuration
// from a .env file, YAML files and environment variables. It covers server
// settings, template and static asset locations, rendering options, metrics
// and development live reload.
package config
