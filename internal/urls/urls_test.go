package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		m     Manager
		route string
		want  string
	}{
		{"zero value query url", Manager{}, "/admin/users", "/index.php?r=admin%2Fusers"},
		{"pretty root relative", Manager{Pretty: true}, "/admin/users", "/admin/users"},
		{"pretty with base", Manager{Pretty: true, BaseURL: "https://example.com/app/"}, "/news", "https://example.com/app/news"},
		{"pretty with suffix", Manager{Pretty: true, Suffix: ".html"}, "/news/default", "/news/default.html"},
		{"pretty empty route", Manager{Pretty: true, BaseURL: "/app"}, "/", "/app/"},
		{"custom script", Manager{Script: "web.php"}, "site/index", "/web.php?r=site%2Findex"},
		{"query empty route", Manager{BaseURL: "/app"}, "", "/app/index.php"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Resolve(tt.route))
		})
	}
}

func TestNewPretty(t *testing.T) {
	m := NewPretty("https://example.com")
	assert.Equal(t, "https://example.com/admin", m.Resolve("/admin"))
}

func TestManager_Validate(t *testing.T) {
	require.NoError(t, (&Manager{}).Validate())
	require.NoError(t, (&Manager{BaseURL: "https://example.com/app"}).Validate())

	err := (&Manager{BaseURL: "https://example.com/?x=1"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not contain a query")

	err = (&Manager{BaseURL: "http://[::1"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base url")
}
