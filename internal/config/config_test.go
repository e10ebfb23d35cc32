package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.API.ListenAddr != ":8080" {
		t.Errorf("API.ListenAddr = %q, want :8080", cfg.API.ListenAddr)
	}
	if cfg.API.ReadTimeout != 30*time.Second {
		t.Errorf("API.ReadTimeout = %v, want 30s", cfg.API.ReadTimeout)
	}
	if cfg.Airtable.BaseURL != "https://api.airtable.com/v0" {
		t.Errorf("Airtable.BaseURL = %q", cfg.Airtable.BaseURL)
	}
	if cfg.Airtable.SignupsTable != "Waitlist Signups" {
		t.Errorf("Airtable.SignupsTable = %q", cfg.Airtable.SignupsTable)
	}
	if cfg.Airtable.InquiriesTable != "General Inquiries" {
		t.Errorf("Airtable.InquiriesTable = %q", cfg.Airtable.InquiriesTable)
	}
	if cfg.Resend.BaseURL != "https://api.resend.com" {
		t.Errorf("Resend.BaseURL = %q", cfg.Resend.BaseURL)
	}
	if cfg.Waitlist.PremiumLimit != 100 {
		t.Errorf("Waitlist.PremiumLimit = %d, want 100", cfg.Waitlist.PremiumLimit)
	}
	if cfg.Waitlist.CouponPrefix != "SNOOZE100" {
		t.Errorf("Waitlist.CouponPrefix = %q", cfg.Waitlist.CouponPrefix)
	}
	if cfg.Waitlist.CountPageSize != 100 {
		t.Errorf("Waitlist.CountPageSize = %d, want 100", cfg.Waitlist.CountPageSize)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Metrics.ListenAddr != ":9090" || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoadValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
api:
  listen_addr: ":9000"
  verbose_errors: true
airtable:
  access_token: "pat_file"
  base_id: "appFILE"
  signups_table: "Signups"
resend:
  api_key: "re_file"
  admin_to: ["ops@example.com", "admin@example.com"]
waitlist:
  premium_limit: 50
  coupon_prefix: "EARLY50"
logging:
  level: debug
  format: text
`))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.API.ListenAddr != ":9000" {
		t.Errorf("API.ListenAddr = %q", cfg.API.ListenAddr)
	}
	if !cfg.API.VerboseErrors {
		t.Error("API.VerboseErrors = false, want true")
	}
	if cfg.Airtable.SignupsTable != "Signups" {
		t.Errorf("Airtable.SignupsTable = %q", cfg.Airtable.SignupsTable)
	}
	if len(cfg.Resend.AdminTo) != 2 || cfg.Resend.AdminTo[0] != "ops@example.com" {
		t.Errorf("Resend.AdminTo = %v", cfg.Resend.AdminTo)
	}
	if cfg.Waitlist.PremiumLimit != 50 || cfg.Waitlist.CouponPrefix != "EARLY50" {
		t.Errorf("Waitlist = %+v", cfg.Waitlist)
	}
	if !cfg.EmailEnabled() {
		t.Error("EmailEnabled() = false with an API key")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AIRTABLE_ACCESS_TOKEN", "pat_env")
	t.Setenv("AIRTABLE_BASE_ID", "appENV")
	t.Setenv("RESEND_API_KEY", "re_env")

	cfg, err := Load(writeConfig(t, `
airtable:
  access_token: "pat_file"
  base_id: "appFILE"
resend:
  api_key: "re_file"
`))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.Airtable.AccessToken != "pat_env" {
		t.Errorf("AccessToken = %q, env must win over the file", cfg.Airtable.AccessToken)
	}
	if cfg.Airtable.BaseID != "appENV" {
		t.Errorf("BaseID = %q", cfg.Airtable.BaseID)
	}
	if cfg.Resend.APIKey != "re_env" {
		t.Errorf("APIKey = %q", cfg.Resend.APIKey)
	}
}

func TestLoadMissingSecretsAllowed(t *testing.T) {
	// Missing credentials must not prevent startup; requests report the
	// configuration error instead.
	t.Setenv("AIRTABLE_ACCESS_TOKEN", "")
	t.Setenv("AIRTABLE_BASE_ID", "")
	t.Setenv("RESEND_API_KEY", "")

	cfg, err := Load(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.EmailEnabled() {
		t.Error("EmailEnabled() = true without an API key")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "logging:\n  level: loud\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"negative premium limit", "waitlist:\n  premium_limit: -1\n"},
		{"zero count page size", "waitlist:\n  count_page_size: -5\n"},
		{"not yaml", "::::\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AIRTABLE_ACCESS_TOKEN", "pat_env")
	t.Setenv("AIRTABLE_BASE_ID", "appENV")

	cfg := FromEnv()
	if cfg.Airtable.AccessToken != "pat_env" || cfg.Airtable.BaseID != "appENV" {
		t.Errorf("Airtable = %+v", cfg.Airtable)
	}
	if cfg.API.ListenAddr != ":8080" {
		t.Errorf("API.ListenAddr = %q, defaults must still apply", cfg.API.ListenAddr)
	}
}
