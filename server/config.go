// Package server provides the gateway's inbound HTTP surface.
package server

// Config is the HTTP server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":3001")
	ListenAddr string

	// AllowedOrigins are exact browser origins (scheme://host[:port]) allowed
	// to call the gateway.
	AllowedOrigins []string

	// AllowedOriginPatterns are subdomain wildcards such as
	// "https://*.zendesk.com".
	AllowedOriginPatterns []string
}
