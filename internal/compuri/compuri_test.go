package compuri

import (
	"errors"
	"testing"
)

func TestParse_ComponentURIs(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		scheme    string
		component string
		path      string
		params    map[string]string
	}{
		{"bare", "apps://notes", "apps", "notes", "", map[string]string{}},
		{"no slashes", "apps:notes", "apps", "notes", "", map[string]string{}},
		{"query", "apps://notes?note=42", "apps", "notes", "", map[string]string{"note": "42"}},
		{"path and query", "widgets://weather/today?city=Oslo&units=metric", "widgets", "weather", "today", map[string]string{"city": "Oslo", "units": "metric"}},
		{"system scheme", "system://settings", "system", "settings", "", map[string]string{}},
		{"uppercase scheme", "APPS://notes", "apps", "notes", "", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Parse(tt.source)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.source, err)
			}
			if ref == nil {
				t.Fatalf("Parse(%q) returned nil ref", tt.source)
			}
			if ref.Scheme != tt.scheme {
				t.Errorf("scheme = %q, want %q", ref.Scheme, tt.scheme)
			}
			if ref.Component != tt.component {
				t.Errorf("component = %q, want %q", ref.Component, tt.component)
			}
			if ref.Path != tt.path {
				t.Errorf("path = %q, want %q", ref.Path, tt.path)
			}
			if len(ref.Params) != len(tt.params) {
				t.Fatalf("params = %v, want %v", ref.Params, tt.params)
			}
			for k, v := range tt.params {
				if ref.Params[k] != v {
					t.Errorf("params[%q] = %q, want %q", k, ref.Params[k], v)
				}
			}
		})
	}
}

func TestParse_NonInternalSourcesReturnNil(t *testing.T) {
	for _, source := range []string{
		"https://example.com",
		"http://example.com/path",
		"example.com",
		"//example.com",
		"notes://x",
		"",
	} {
		ref, err := Parse(source)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", source, err)
		}
		if ref != nil {
			t.Errorf("Parse(%q) = %+v, want nil", source, ref)
		}
	}
}

func TestParse_MalformedInternalURIsError(t *testing.T) {
	for _, source := range []string{
		"apps://",
		"apps:",
		"apps://bad name",
		"widgets://weather?city=%zz",
	} {
		ref, err := Parse(source)
		if err == nil {
			t.Errorf("Parse(%q) = %+v, want error", source, ref)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error type = %T, want *ParseError", source, err)
		}
	}
}

func TestIsComponentURI(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"apps://notes", true},
		{"widgets:weather", true},
		{"system://settings?x=1", true},
		{"https://example.com", false},
		{"example.com", false},
		{"notes://x", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsComponentURI(tt.source); got != tt.want {
			t.Errorf("IsComponentURI(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "https://example.com"},
		{"https://example.com", "https://example.com"},
		{"//example.com", "https://example.com"},
		{"http://example.com/a?b=1", "http://example.com/a?b=1"},
		{"  example.com  ", "https://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.input); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
