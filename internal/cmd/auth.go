package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/freshdesk/freshdesk-cli/internal/api"
	"github.com/freshdesk/freshdesk-cli/internal/config"
	"github.com/freshdesk/freshdesk-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication credentials",
		Long:  "Configure and manage helpdesk API credentials stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfileCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		domain   string
		apiKey   string
		user     string
		password string
		profile  string
		envFile  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save helpdesk credentials",
		Long: strings.TrimSpace(`
Save helpdesk API credentials securely to your OS keychain.

You'll need:
- Domain: Your helpdesk domain (e.g. company.freshdesk.com)
- API Key: Found under Profile Settings in the helpdesk
  (or a username/password pair with --user and --password)

Optional:
- Profile: Save multiple helpdesks and switch between them
`),
		Example: strings.TrimSpace(`
  # API key login
  fd auth login --domain company.freshdesk.com --api-key YOUR_API_KEY

  # Username/password login
  fd auth login --domain company.freshdesk.com --user agent@company.com --password secret

  # Save to a named profile
  fd auth login --domain staging.freshdesk.com --api-key KEY --profile staging

  # Load credentials from a .env file
  fd auth login --env-file .env
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := loadAuthEnvFile(envFile)
				if err != nil {
					return err
				}
				applyAuthEnvFileRuntimeVars(envVars)

				if domain == "" {
					domain = strings.TrimSpace(envVars["FRESHDESK_DOMAIN"])
				}
				if apiKey == "" {
					apiKey = strings.TrimSpace(envVars["FRESHDESK_API_KEY"])
				}
				if user == "" {
					user = strings.TrimSpace(envVars["FRESHDESK_USER"])
				}
				if password == "" {
					password = strings.TrimSpace(envVars["FRESHDESK_PASSWORD"])
				}
				if !cmd.Flags().Changed("profile") {
					if envProfile := strings.TrimSpace(envVars["FRESHDESK_PROFILE"]); envProfile != "" {
						profile = envProfile
					}
				}
			}

			if domain == "" {
				return fmt.Errorf("--domain is required")
			}
			if apiKey == "" && (user == "" || password == "") {
				return fmt.Errorf("--api-key or both --user and --password are required")
			}
			if apiKey != "" && user != "" {
				return fmt.Errorf("--api-key and --user/--password conflict; set only one of them")
			}

			baseURL := api.BaseURLFromDomain(domain)
			if err := validation.ValidateHelpdeskURL(baseURL); err != nil {
				return fmt.Errorf("invalid domain: %w", err)
			}

			account := config.Account{
				Domain:   domain,
				APIKey:   apiKey,
				User:     user,
				Password: password,
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			out := cmdOut(cmd)
			_, _ = fmt.Fprintln(out, "Credentials saved successfully!")
			_, _ = fmt.Fprintf(out, "  Domain: %s\n", domain)
			if apiKey != "" {
				_, _ = fmt.Fprintf(out, "  API Key: %s\n", maskSecret(apiKey))
			} else {
				_, _ = fmt.Fprintf(out, "  User: %s\n", user)
			}
			if profile != "" && profile != "default" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Helpdesk domain (e.g. company.freshdesk.com)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (sent as the basic-auth username)")
	cmd.Flags().StringVar(&user, "user", "", "Username for basic auth (requires --password)")
	cmd.Flags().StringVar(&password, "password", "", "Password for basic auth (requires --user)")
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to save credentials under")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load FRESHDESK_* (and optional FD_KEYRING_*) values from a .env file")

	return cmd
}

func loadAuthEnvFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--env-file requires a file path")
	}

	envVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}
	return envVars, nil
}

// applyAuthEnvFileRuntimeVars copies keyring settings from --env-file into
// the process environment when they are not already exported.
func applyAuthEnvFileRuntimeVars(envVars map[string]string) {
	keys := []string{
		"FD_KEYRING_BACKEND",
		"FD_KEYRING_PASSWORD",
		"FD_CREDENTIALS_DIR",
	}

	for _, key := range keys {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		value := strings.TrimSpace(envVars[key])
		if value == "" {
			continue
		}
		_ = os.Setenv(key, value)
	}
}

func newAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current authentication configuration",
		Long:  "Display the currently saved authentication configuration (secrets are masked).",
		Example: strings.TrimSpace(`
  # Check authentication status
  fd auth status

  # JSON output for scripting
  fd auth status --json
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			envDomain := strings.TrimSpace(os.Getenv("FRESHDESK_DOMAIN"))
			usingEnv := envDomain != ""

			account, err := config.LoadAccount()
			if err != nil {
				if err == config.ErrNotConfigured {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'fd auth login' to configure credentials.",
						})
					}
					out := cmdOut(cmd)
					_, _ = fmt.Fprintln(out, "Not authenticated.")
					_, _ = fmt.Fprintln(out, "Run 'fd auth login' to configure credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			var profile string
			if !usingEnv {
				if current, err := config.CurrentProfile(); err == nil {
					profile = current
				}
			}

			authMethod := "api_key"
			if account.APIKey == "" {
				authMethod = "password"
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"domain":        account.Domain,
					"auth_method":   authMethod,
					"source":        map[bool]string{true: "env", false: "keychain"}[usingEnv],
				}
				if account.APIKey != "" {
					payload["api_key"] = maskSecret(account.APIKey)
				} else {
					payload["user"] = account.User
				}
				if profile != "" {
					payload["profile"] = profile
				}
				return printJSON(cmd, payload)
			}

			out := cmdOut(cmd)
			_, _ = fmt.Fprintln(out, "Authenticated")
			_, _ = fmt.Fprintf(out, "  Domain: %s\n", account.Domain)
			if account.APIKey != "" {
				_, _ = fmt.Fprintf(out, "  API Key: %s\n", maskSecret(account.APIKey))
			} else {
				_, _ = fmt.Fprintf(out, "  User: %s\n", account.User)
			}
			if profile != "" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			if usingEnv {
				_, _ = fmt.Fprintln(out, "  Source: env")
			}
			return nil
		}),
	}

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from keychain",
		Long:  "Delete the stored authentication credentials from your OS keychain.",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if profile == "" {
				current, err := config.CurrentProfile()
				if err == nil {
					profile = current
				}
			}

			if profile == "" && !config.HasAccount() {
				_, _ = fmt.Fprintln(cmdOut(cmd), "No credentials found.")
				return nil
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			if profile == "" {
				_, _ = fmt.Fprintln(cmdOut(cmd), "Credentials removed successfully.")
			} else {
				_, _ = fmt.Fprintf(cmdOut(cmd), "Profile %s removed successfully.\n", profile)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name to remove (defaults to current)")

	return cmd
}

func newAuthProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved credential profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			current, _ := config.CurrentProfile()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"profiles": profiles,
					"current":  current,
				})
			}

			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(cmdErrOut(cmd), "No profiles saved. Run 'fd auth login' to create one.")
				return nil
			}
			out := cmdOut(cmd)
			for _, p := range profiles {
				marker := " "
				if p == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", marker, p)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profile := args[0]
			if _, err := config.LoadProfile(profile); err != nil {
				return fmt.Errorf("profile %q: %w", profile, err)
			}
			if err := config.SetCurrentProfile(profile); err != nil {
				return fmt.Errorf("failed to switch profile: %w", err)
			}
			_, _ = fmt.Fprintf(cmdOut(cmd), "Switched to profile %s.\n", profile)
			return nil
		}),
	})

	return cmd
}

// maskSecret masks a credential for display, showing only first and last
// four characters.
func maskSecret(secret string) string {
	if len(secret) < 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
