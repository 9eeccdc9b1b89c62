// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"net/url"
	"strconv"
)

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, 192.168.1.100:4222, nats.example.com)")
	}

	return nil
}

// NATSPort extracts the port of the NATS URL, used to bind the embedded server.
// Returns 4222 when the URL has no explicit port.
func (n *NATSConfig) NATSPort() int {
	parsed, err := url.Parse(n.URL)
	if err != nil || parsed.Port() == "" {
		return 4222
	}
	port, err := strconv.Atoi(parsed.Port())
	if err != nil {
		return 4222
	}
	return port
}
