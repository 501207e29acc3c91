package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"

	"github.com/freshdesk/freshdesk-cli/internal/config"
)

// withMockKeyring swaps the keyring for an in-memory one and clears the
// credential environment so commands hit the mock instead of env overrides.
func withMockKeyring(t *testing.T) {
	t.Helper()
	mock := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(_ keyring.Config) (keyring.Keyring, error) {
		return mock, nil
	})
	t.Cleanup(restore)

	t.Setenv("FRESHDESK_DOMAIN", "")
	t.Setenv("FRESHDESK_API_KEY", "")
	t.Setenv("FRESHDESK_USER", "")
	t.Setenv("FRESHDESK_PASSWORD", "")
	t.Setenv("FRESHDESK_PROFILE", "")
	t.Setenv("FRESHDESK_OUTPUT", "text")
}

func TestAuthLoginAndStatus(t *testing.T) {
	withMockKeyring(t)
	t.Setenv("FRESHDESK_ALLOW_PRIVATE", "1") // example.freshdesk.com won't resolve in tests

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"auth", "login", "--domain", "example.freshdesk.com", "--api-key", "abcdef1234567890",
		})
		if err != nil {
			t.Errorf("auth login failed: %v", err)
		}
	})

	if !strings.Contains(output, "Credentials saved successfully!") {
		t.Errorf("output missing confirmation: %s", output)
	}
	// The key is masked in output.
	if strings.Contains(output, "abcdef1234567890") {
		t.Errorf("output leaks the API key: %s", output)
	}

	output = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "status"}); err != nil {
			t.Errorf("auth status failed: %v", err)
		}
	})

	if !strings.Contains(output, "Authenticated") || !strings.Contains(output, "example.freshdesk.com") {
		t.Errorf("unexpected status output: %s", output)
	}
	if strings.Contains(output, "abcdef1234567890") {
		t.Errorf("status output leaks the API key: %s", output)
	}
}

func TestAuthLoginRequiresCredentials(t *testing.T) {
	withMockKeyring(t)

	err := Execute(context.Background(), []string{"auth", "login", "--domain", "example.freshdesk.com"})
	if err == nil {
		t.Fatal("expected error without --api-key or --user/--password")
	}

	err = Execute(context.Background(), []string{
		"auth", "login", "--domain", "example.freshdesk.com",
		"--api-key", "key", "--user", "agent@example.com", "--password", "pw",
	})
	if err == nil {
		t.Fatal("expected error for conflicting auth methods")
	}
}

func TestAuthLoginFromEnvFile(t *testing.T) {
	withMockKeyring(t)
	t.Setenv("FRESHDESK_ALLOW_PRIVATE", "1")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "FRESHDESK_DOMAIN=example.freshdesk.com\nFRESHDESK_API_KEY=envfilekey12345\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "login", "--env-file", envFile}); err != nil {
			t.Errorf("auth login --env-file failed: %v", err)
		}
	})

	if !strings.Contains(output, "example.freshdesk.com") {
		t.Errorf("output missing domain from env file: %s", output)
	}
}

func TestAuthStatusNotConfigured(t *testing.T) {
	withMockKeyring(t)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "status"}); err != nil {
			t.Errorf("auth status failed: %v", err)
		}
	})

	if !strings.Contains(output, "Not authenticated") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestAuthStatusJSON(t *testing.T) {
	withMockKeyring(t)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "status", "--json"}); err != nil {
			t.Errorf("auth status --json failed: %v", err)
		}
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v, output: %s", err, output)
	}
	if payload["authenticated"] != false {
		t.Errorf("expected authenticated false, got %v", payload)
	}
}

func TestAuthLogout(t *testing.T) {
	withMockKeyring(t)
	t.Setenv("FRESHDESK_ALLOW_PRIVATE", "1")

	err := Execute(context.Background(), []string{
		"auth", "login", "--domain", "example.freshdesk.com", "--api-key", "abcdef1234567890",
	})
	if err != nil {
		t.Fatalf("auth login failed: %v", err)
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "logout"}); err != nil {
			t.Errorf("auth logout failed: %v", err)
		}
	})
	if !strings.Contains(output, "removed successfully") {
		t.Errorf("unexpected logout output: %s", output)
	}

	output = captureStdout(t, func() {
		_ = Execute(context.Background(), []string{"auth", "status"})
	})
	if !strings.Contains(output, "Not authenticated") {
		t.Errorf("expected not authenticated after logout: %s", output)
	}
}

func TestAuthProfiles(t *testing.T) {
	withMockKeyring(t)
	t.Setenv("FRESHDESK_ALLOW_PRIVATE", "1")

	for _, profile := range []string{"work", "staging"} {
		err := Execute(context.Background(), []string{
			"auth", "login", "--domain", profile + ".freshdesk.com",
			"--api-key", "abcdef1234567890", "--profile", profile,
		})
		if err != nil {
			t.Fatalf("auth login --profile %s failed: %v", profile, err)
		}
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "profile", "list"}); err != nil {
			t.Errorf("auth profile list failed: %v", err)
		}
	})
	if !strings.Contains(output, "work") || !strings.Contains(output, "staging") {
		t.Errorf("profile list missing entries: %s", output)
	}
	// Last login wins as current.
	if !strings.Contains(output, "* staging") {
		t.Errorf("expected staging marked current: %s", output)
	}

	output = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"auth", "profile", "use", "work"}); err != nil {
			t.Errorf("auth profile use failed: %v", err)
		}
	})
	if !strings.Contains(output, "Switched to profile work") {
		t.Errorf("unexpected output: %s", output)
	}

	output = captureStdout(t, func() {
		_ = Execute(context.Background(), []string{"auth", "status"})
	})
	if !strings.Contains(output, "work.freshdesk.com") {
		t.Errorf("status should show the work profile: %s", output)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"abcdef1234567890", "abcd********7890"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
