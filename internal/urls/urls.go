// Package urls turns framework routes into URLs the way a web application's
// URL manager would, either as pretty paths or as an entry-script query.
package urls

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultScript is the entry script used for non-pretty URLs.
const DefaultScript = "index.php"

// RouteParam is the query parameter carrying the route in non-pretty URLs.
const RouteParam = "r"

// Manager resolves routes to URLs. The zero value produces pretty,
// root-relative URLs.
type Manager struct {
	// BaseURL is prepended to every URL, e.g. "https://example.com/app".
	BaseURL string `json:"baseUrl,omitempty"`

	// Pretty selects path URLs ("/admin/users") over query URLs
	// ("/index.php?r=admin%2Fusers").
	Pretty bool `json:"prettyUrl"`

	// Script is the entry script for query URLs. Defaults to DefaultScript.
	Script string `json:"script,omitempty"`

	// Suffix is appended to pretty URLs, e.g. ".html".
	Suffix string `json:"suffix,omitempty"`
}

// NewPretty returns a Manager producing pretty URLs below baseURL.
func NewPretty(baseURL string) *Manager {
	return &Manager{BaseURL: baseURL, Pretty: true}
}

// Validate checks that BaseURL parses and has no query or fragment.
func (m *Manager) Validate() error {
	if m.BaseURL == "" {
		return nil
	}

	u, err := url.Parse(m.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", m.BaseURL, err)
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid base url %q: must not contain a query or fragment", m.BaseURL)
	}

	return nil
}

// Resolve returns the URL for route. A leading slash marks the route as
// absolute; it is optional.
func (m *Manager) Resolve(route string) string {
	base := strings.TrimRight(m.BaseURL, "/")
	route = strings.Trim(route, "/")

	if m.Pretty {
		if route == "" {
			return base + "/"
		}

		return base + "/" + route + m.Suffix
	}

	script := m.Script
	if script == "" {
		script = DefaultScript
	}

	if route == "" {
		return base + "/" + script
	}

	q := url.Values{RouteParam: []string{route}}

	return base + "/" + script + "?" + q.Encode()
}
