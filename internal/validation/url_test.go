package validation

import (
	"strings"
	"testing"
)

func TestValidateHelpdeskURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"empty", "", "cannot be empty"},
		{"bad scheme", "ftp://support.example.com", "invalid URL scheme"},
		{"no hostname", "https://", "must contain a hostname"},
		{"localhost", "http://localhost:3000", "localhost URLs are not allowed"},
		{"localhost subdomain", "http://dev.localhost", "localhost URLs are not allowed"},
		{"loopback ip", "http://127.0.0.1", "localhost URLs are not allowed"},
		{"unspecified ip", "http://0.0.0.0", "localhost URLs are not allowed"},
		{"metadata ip", "http://169.254.169.254/latest", "cloud metadata"},
		{"metadata hostname", "http://metadata.google.internal", "cloud metadata"},
		{"private rfc1918", "https://10.1.2.3", "private IP"},
		{"private 192", "https://192.168.0.10", "private IP"},
		{"link local", "https://169.254.10.10", "link-local"},
		{"unresolvable domain allowed", "https://support.nonexistent-helpdesk-domain-xyz.invalid", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHelpdeskURL(tt.url)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateHelpdeskURL(%q) error: %v", tt.url, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateHelpdeskURL(%q) = %v, want error containing %q", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestAllowPrivateToggle(t *testing.T) {
	prev := AllowPrivateEnabled()
	defer SetAllowPrivate(prev)

	SetAllowPrivate(true)
	if err := ValidateHelpdeskURL("http://localhost:3000"); err != nil {
		t.Errorf("localhost should be allowed with AllowPrivate: %v", err)
	}
	if err := ValidateHelpdeskURL("https://10.1.2.3"); err != nil {
		t.Errorf("private IP should be allowed with AllowPrivate: %v", err)
	}
	// Metadata endpoints stay blocked.
	if err := ValidateHelpdeskURL("http://169.254.169.254"); err == nil {
		t.Error("cloud metadata must stay blocked even with AllowPrivate")
	}

	SetAllowPrivate(false)
	if err := ValidateHelpdeskURL("http://localhost:3000"); err == nil {
		t.Error("localhost should be rejected with AllowPrivate off")
	}
}
