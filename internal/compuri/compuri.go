package compuri

import (
	"fmt"
	"net/url"
	"strings"
)

// Internal component URI schemes. Sources using one of these schemes address
// a discoverable UI component rather than an external URL.
const (
	SchemeApps    = "apps"
	SchemeWidgets = "widgets"
	SchemeSystem  = "system"
)

var internalSchemes = map[string]bool{
	SchemeApps:    true,
	SchemeWidgets: true,
	SchemeSystem:  true,
}

// ComponentRef is a parsed internal component address.
type ComponentRef struct {
	Scheme    string
	Component string
	Path      string
	Params    map[string]string
}

// ParseError reports a source that looked like an internal component URI but
// did not parse. It is deliberately distinct from "not an internal URI":
// a malformed internal address must fail instead of falling through to URL
// loading.
type ParseError struct {
	Source string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid component uri %q: %s", e.Source, e.Reason)
}

// IsComponentURI reports whether source carries one of the internal component
// schemes. It does not validate the rest of the URI.
func IsComponentURI(source string) bool {
	scheme, _, ok := splitScheme(strings.TrimSpace(source))
	if !ok {
		return false
	}
	return internalSchemes[strings.ToLower(scheme)]
}

// Parse parses an internal component URI of the form
// scheme:(//)?component-name(/sub-path)?(?key=value&...).
// Sources without an internal scheme return (nil, nil) so callers can fall
// back to URL handling; sources with an internal scheme that fail to parse
// return a *ParseError.
func Parse(source string) (*ComponentRef, error) {
	trimmed := strings.TrimSpace(source)
	scheme, rest, ok := splitScheme(trimmed)
	if !ok {
		return nil, nil
	}
	scheme = strings.ToLower(scheme)
	if !internalSchemes[scheme] {
		return nil, nil
	}

	rest = strings.TrimPrefix(rest, "//")

	var query string
	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		query = rest[idx+1:]
		rest = rest[:idx]
	}

	component := rest
	subPath := ""
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		component = rest[:idx]
		subPath = strings.Trim(rest[idx:], "/")
	}

	if component == "" {
		return nil, &ParseError{Source: source, Reason: "missing component name"}
	}
	if !validComponentName(component) {
		return nil, &ParseError{Source: source, Reason: fmt.Sprintf("invalid component name %q", component)}
	}

	params := map[string]string{}
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return nil, &ParseError{Source: source, Reason: fmt.Sprintf("bad query: %v", err)}
		}
		for key, vals := range values {
			if len(vals) > 0 {
				params[key] = vals[len(vals)-1]
			}
		}
	}

	return &ComponentRef{
		Scheme:    scheme,
		Component: component,
		Path:      subPath,
		Params:    params,
	}, nil
}

// splitScheme splits "scheme:rest" and reports whether a scheme-shaped prefix
// was present at all.
func splitScheme(s string) (scheme, rest string, ok bool) {
	idx := strings.IndexByte(s, ':')
	if idx <= 0 {
		return "", "", false
	}
	scheme = s[:idx]
	for _, r := range scheme {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '+' && r != '-' && r != '.' {
			return "", "", false
		}
	}
	return scheme, s[idx+1:], true
}

func validComponentName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
