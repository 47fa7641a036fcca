package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLink(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantHref  string
		wantHost  string
		wantValid bool
	}{
		{"bare host", "github.com/jane", "https://github.com/jane", "github.com", true},
		{"full https", "https://www.linkedin.com/in/jane", "https://www.linkedin.com/in/jane", "linkedin.com", true},
		{"http kept", "http://example.org", "http://example.org", "example.org", true},
		{"mixed case scheme", "HTTPS://Example.org/x", "https://Example.org/x", "Example.org", true},
		{"surrounding space", "  jane.dev  ", "https://jane.dev", "jane.dev", true},
		{"empty", "", "", "", false},
		{"spaces in host", "not a url", "", "", false},
		{"bad escape", "%zz", "", "", false},
		{"scheme only", "https://", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLink(tt.raw)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantHref, got.Href)
			assert.Equal(t, tt.wantHost, got.Host)
		})
	}
}
