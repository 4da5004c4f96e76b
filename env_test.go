// FILE: env_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDCAEnvReadsNeededKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dca.env")
	content := `# deployment config
export DCA_PAIR=XXBTZEUR
DCA_AMOUNT_EUR="25,50"
DCA_DISCOUNT_PCT='0,5'
UNRELATED_KEY=ignored

SCHEDULE_CRON=0 8 * * *
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DCA_ENV_FILE", path)
	for _, key := range []string{"DCA_PAIR", "DCA_AMOUNT_EUR", "DCA_DISCOUNT_PCT", "UNRELATED_KEY", "SCHEDULE_CRON"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	loadDCAEnv()

	if got := os.Getenv("DCA_PAIR"); got != "XXBTZEUR" {
		t.Errorf("DCA_PAIR = %q", got)
	}
	if got := os.Getenv("DCA_AMOUNT_EUR"); got != "25,50" {
		t.Errorf("DCA_AMOUNT_EUR = %q (quotes must be stripped)", got)
	}
	if got := os.Getenv("DCA_DISCOUNT_PCT"); got != "0,5" {
		t.Errorf("DCA_DISCOUNT_PCT = %q", got)
	}
	if got := os.Getenv("SCHEDULE_CRON"); got != "0 8 * * *" {
		t.Errorf("SCHEDULE_CRON = %q", got)
	}
	if got := os.Getenv("UNRELATED_KEY"); got != "" {
		t.Errorf("UNRELATED_KEY = %q, loader must only set whitelisted keys", got)
	}
}

func TestLoadDCAEnvQuotedValuesKeepHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dca.env")
	content := `NTFY_TOPIC="alerts#prod"
KRAKEN_API_SECRET='top#secret'
DCA_PAIR=XXBTZEUR # traded pair
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DCA_ENV_FILE", path)
	for _, key := range []string{"NTFY_TOPIC", "KRAKEN_API_SECRET", "DCA_PAIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	loadDCAEnv()

	if got := os.Getenv("NTFY_TOPIC"); got != "alerts#prod" {
		t.Errorf("NTFY_TOPIC = %q, quoted values must keep '#'", got)
	}
	if got := os.Getenv("KRAKEN_API_SECRET"); got != "top#secret" {
		t.Errorf("KRAKEN_API_SECRET = %q, quoted values must keep '#'", got)
	}
	if got := os.Getenv("DCA_PAIR"); got != "XXBTZEUR" {
		t.Errorf("DCA_PAIR = %q, unquoted trailing comment must be stripped", got)
	}
}

func TestLoadDCAEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dca.env")
	if err := os.WriteFile(path, []byte("DCA_PAIR=XETHZEUR\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DCA_ENV_FILE", path)
	t.Setenv("DCA_PAIR", "XXBTZEUR")

	loadDCAEnv()

	if got := os.Getenv("DCA_PAIR"); got != "XXBTZEUR" {
		t.Errorf("DCA_PAIR = %q, process env must win over the file", got)
	}
}

func TestLoadDCAEnvMissingFileIsFine(t *testing.T) {
	t.Setenv("DCA_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	loadDCAEnv() // must not panic or exit
}
