package google

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cacheDirName = "smartsched"

// validateAccountName rejects names that could escape the cache directory
// or produce surprising token file names.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	for _, r := range account {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("account name %q contains invalid character %q", account, r)
		}
	}
	return nil
}

// GetOAuthConfig returns the OAuth2 configuration for the Google Calendar API.
// Client credentials come from the environment so tokens issued for one
// deployment never leak into another.
func GetOAuthConfig() *oauth2.Config {
	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     os.Getenv("SMARTSCHED_GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("SMARTSCHED_GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       DefaultOAuthScopes,
	}
}

// GetAuthURLForAccount returns the OAuth URL for user authorization for a specific account
func GetAuthURLForAccount(account string) string {
	conf := GetOAuthConfig()
	return conf.AuthCodeURL("state-" + account)
}

// GetAuthURL returns the OAuth URL for user authorization for the default account
func GetAuthURL() string {
	return GetAuthURLForAccount("default")
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves them for a specific account
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	conf := GetOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	tokenFile := tokenFileForAccount(account)
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// SaveToken exchanges an authorization code for tokens and saves them for the default account
func SaveToken(ctx context.Context, authCode string) error {
	return SaveTokenForAccount(ctx, "default", authCode)
}

// HasTokenForAccount checks if a stored OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	if validateAccountName(account) != nil {
		return false
	}
	_, err := os.ReadFile(tokenFileForAccount(account))
	return err == nil
}

// HasToken checks if a stored OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// GetTokenSourceForAccount returns an OAuth2 token source for the stored token
// of the specified account
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}
	conf := GetOAuthConfig()

	slurp, err := os.ReadFile(tokenFileForAccount(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token
	if _, err := ts.Token(); err != nil {
		log.Printf("Cached token invalid: %v", err)
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}

	return ts, nil
}

// tokenFileForAccount returns the per-account token file path. The
// default account keeps the unsuffixed name so existing tokens survive.
func tokenFileForAccount(account string) string {
	name := "google.token"
	if account != "" && account != "default" {
		name = "google-" + account + ".token"
	}
	return filepath.Join(userCacheDir(), cacheDirName, name)
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
