package models

import (
	"testing"

	"github.com/collabtrack/collabtrack/internal/config"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	if err := InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
}

func configValue(t *testing.T, key string) string {
	t.Helper()

	var cfg SystemConfig
	if err := DB.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		t.Fatalf("config %s not seeded: %v", key, err)
	}
	return cfg.Value
}

func TestSeedDefaultData_UsesLDAPConfigAsInitialValues(t *testing.T) {
	setupTestDB(t)

	ldap := &config.LDAPConfig{
		Enabled:    true,
		Host:       "ldap.corp.example.com",
		Port:       636,
		BaseDN:     "dc=example,dc=com",
		UserFilter: "(mail=%s)",
		UseSSL:     true,
	}
	if err := SeedDefaultData(ldap); err != nil {
		t.Fatalf("SeedDefaultData: %v", err)
	}

	for key, want := range map[string]string{
		"ldap_enabled":     "true",
		"ldap_host":        "ldap.corp.example.com",
		"ldap_port":        "636",
		"ldap_base_dn":     "dc=example,dc=com",
		"ldap_user_filter": "(mail=%s)",
		"ldap_use_ssl":     "true",
	} {
		if got := configValue(t, key); got != want {
			t.Errorf("%s = %q, expected %q", key, got, want)
		}
	}
}

func TestSeedDefaultData_DoesNotOverwriteExistingValues(t *testing.T) {
	setupTestDB(t)

	if err := SeedDefaultData(nil); err != nil {
		t.Fatalf("SeedDefaultData: %v", err)
	}

	// Admin edits over the API land in the table; a restart must not
	// reset them to the YAML values.
	if err := DB.Model(&SystemConfig{}).
		Where("`key` = ?", "ldap_host").
		Update("value", "ldap.internal").Error; err != nil {
		t.Fatalf("update config: %v", err)
	}

	if err := SeedDefaultData(&config.LDAPConfig{Host: "ldap.from-yaml"}); err != nil {
		t.Fatalf("SeedDefaultData: %v", err)
	}
	if got := configValue(t, "ldap_host"); got != "ldap.internal" {
		t.Errorf("ldap_host = %q, expected the edited value to survive", got)
	}
}

func TestSeedDefaultData_SeedsAuthDefaults(t *testing.T) {
	setupTestDB(t)

	if err := SeedDefaultData(nil); err != nil {
		t.Fatalf("SeedDefaultData: %v", err)
	}

	if got := configValue(t, "access_token_expire_hours"); got != "24" {
		t.Errorf("access_token_expire_hours = %q, expected 24", got)
	}
	if got := configValue(t, "invite_expire_days"); got != "7" {
		t.Errorf("invite_expire_days = %q, expected 7", got)
	}
}
