package google

import (
	"path/filepath"
	"testing"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid work", "work", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenFileForAccount(t *testing.T) {
	tests := []struct {
		name    string
		account string
		want    string
	}{
		{"default account keeps plain name", "default", "google.token"},
		{"work account", "work", "google-work.token"},
		{"personal account", "personal", "google-personal.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenFileForAccount(tt.account)
			if filepath.Base(got) != tt.want {
				t.Errorf("tokenFileForAccount() = %v, want base %v", got, tt.want)
			}
		})
	}
}

func TestHasTokenForAccountValidation(t *testing.T) {
	if HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount() should return false for invalid account name")
	}
	if HasTokenForAccount("") {
		t.Error("HasTokenForAccount() should return false for empty account name")
	}
}

func TestDefaultAccountFunctions(t *testing.T) {
	defaultResult := HasTokenForAccount("default")
	legacyResult := HasToken()
	if defaultResult != legacyResult {
		t.Error("HasToken() should return same result as HasTokenForAccount('default')")
	}
}

func TestGetAuthURLForAccount(t *testing.T) {
	url := GetAuthURLForAccount("work")
	if url == "" {
		t.Error("GetAuthURLForAccount() should return a non-empty URL")
	}
}
