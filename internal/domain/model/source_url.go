package model

import (
	"net/url"
	"strings"
)

// DefaultAllowedHost is the platform domain accepted by ValidateSourceURL.
const DefaultAllowedHost = "linkedin.com"

// ValidateSourceURL trims raw and checks that its host is allowedHost or one of
// its subdomains. It returns the trimmed URL.
func ValidateSourceURL(raw, allowedHost string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingURL
	}

	if allowedHost == "" {
		allowedHost = DefaultAllowedHost
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidSourceURL
	}

	if !matchesHost(parsed.Hostname(), allowedHost) {
		return "", ErrInvalidSourceURL
	}

	return raw, nil
}

// ValidateMediaURL checks that raw is an http(s) URL whose host is one of
// allowedHosts or a subdomain of one. An empty allowedHosts accepts any host.
func ValidateMediaURL(raw string, allowedHosts []string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return ErrMediaHostNotAllowed
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrMediaHostNotAllowed
	}
	if !HostAllowed(parsed.Hostname(), allowedHosts) {
		return ErrMediaHostNotAllowed
	}
	return nil
}

// HostAllowed reports whether host equals or is a subdomain of any entry in
// allowed. An empty list allows every host.
func HostAllowed(host string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a = strings.TrimSpace(a); a != "" && matchesHost(host, a) {
			return true
		}
	}
	return false
}

func matchesHost(host, allowed string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	allowed = strings.ToLower(allowed)
	return host == allowed || strings.HasSuffix(host, "."+allowed)
}
