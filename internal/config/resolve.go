package config

import (
	"fmt"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	Domain   string
	APIKey   string
	User     string
	Password string
}

// ResolveClientConfig resolves client settings from the stored account and
// environment, with an optional --domain flag override.
func ResolveClientConfig(domainOverride string) (ClientConfig, error) {
	account, err := LoadAccount()
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		Domain:   account.Domain,
		APIKey:   account.APIKey,
		User:     account.User,
		Password: account.Password,
	}

	if domainOverride != "" {
		cfg.Domain = strings.TrimSuffix(strings.TrimSpace(domainOverride), "/")
	}

	if cfg.Domain == "" {
		return ClientConfig{}, fmt.Errorf("helpdesk domain not configured (set FRESHDESK_DOMAIN, run 'fd auth login', or pass --domain)")
	}
	if cfg.APIKey == "" && (cfg.User == "" || cfg.Password == "") {
		return ClientConfig{}, fmt.Errorf("credentials not configured (set FRESHDESK_API_KEY or run 'fd auth login')")
	}

	return cfg, nil
}
