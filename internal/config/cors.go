package config

import (
	"os"
	"strings"
)

// CORSConfig lists the origins the browser client may call the API from.
// Origins are configured as a comma-separated CORS_ORIGINS value; an entry
// starting with "." matches any subdomain of that suffix.  Requests without
// an Origin header (curl, health probes) always pass.
type CORSConfig struct {
	Origins  []string
	Suffixes []string
	AllowAll bool
}

// LoadCORSConfig parses CORS_ORIGINS.  An empty or "*" value allows every
// origin, which is only intended for development environments.
func LoadCORSConfig() CORSConfig {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" || raw == "*" {
		return CORSConfig{AllowAll: true}
	}
	var cfg CORSConfig
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			cfg.Suffixes = append(cfg.Suffixes, part)
			continue
		}
		cfg.Origins = append(cfg.Origins, part)
	}
	return cfg
}

// OriginAllowed reports whether the given Origin header value is accepted.
func (c CORSConfig) OriginAllowed(origin string) bool {
	if c.AllowAll {
		return true
	}
	for _, o := range c.Origins {
		if origin == o {
			return true
		}
	}
	// Strip the scheme before suffix matching so ".example.com" covers
	// https://app.example.com.
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	for _, s := range c.Suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}
