package compuri

import (
	"regexp"
	"strings"
)

var urlSchemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeURL upgrades bare hosts and protocol-relative strings to https.
// Inputs that already carry a scheme pass through unchanged.
//
//	example.com     -> https://example.com
//	//example.com   -> https://example.com
//	http://a.com    -> http://a.com (unchanged)
func NormalizeURL(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	if strings.HasPrefix(trimmed, "//") {
		return "https:" + trimmed
	}

	if urlSchemeRegex.MatchString(trimmed) {
		return trimmed
	}

	return "https://" + trimmed
}
