// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable ParseFlags reads; empty counts as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "ELECTION_CONFIG", "NOMINEES_CSV", "BALLOTS_CSV"} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ELECTION_CONFIG", "election.yaml")
	t.Setenv("NOMINEES_CSV", "nominees.csv")
	t.Setenv("BALLOTS_CSV", "ballots.csv")

	cfg, err := ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.NomineesPath != "nominees.csv" {
		t.Errorf("expected nominees.csv, got %q", cfg.NomineesPath)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-env", "", "-p", "8080", "-serve"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseFlags([]string{"-env", "", "-serve"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != "elections.db" {
		t.Errorf("expected sqlite elections.db, got %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
}

func TestParseFlags_PostgresNeedsURL(t *testing.T) {
	clearEnv(t)
	_, err := ParseFlags([]string{"-env", "", "-serve", "-t", "postgres"})
	if err == nil {
		t.Error("expected error when postgres has no URL")
	}
}

func TestParseFlags_UnknownDatabaseType(t *testing.T) {
	clearEnv(t)
	_, err := ParseFlags([]string{"-env", "", "-serve", "-t", "mysql"})
	if err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestParseFlags_RunNeedsInputs(t *testing.T) {
	clearEnv(t)
	_, err := ParseFlags([]string{"-env", "", "-c", "election.yaml"})
	if err == nil {
		t.Error("expected error when CSV inputs are missing")
	}
}

func TestParseFlags_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")
	_, err := ParseFlags([]string{"-env", "", "-serve"})
	if err == nil {
		t.Error("expected error for invalid PORT")
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_TYPE=sqlite\nDATABASE_URL=from-file.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not overwrite, so make sure the keys start unset
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DATABASE_TYPE")

	cfg, err := ParseFlags([]string{"-env", path, "-serve"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "from-file.db" {
		t.Errorf("expected URL from env file, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_MissingEnvFileIsFine(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "absent.env")
	if _, err := ParseFlags([]string{"-env", missing, "-serve"}); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
