package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecoleta/ecoleta-backend/pkg/migrate"
)

func TestGeneratorsMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_generators.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no generators migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS addresses",
		"CREATE TABLE IF NOT EXISTS generators",
		"CREATE TABLE IF NOT EXISTS generator_settings",
		"CONSTRAINT uq_generators_email UNIQUE (email)",
		"CONSTRAINT uq_generators_cpf UNIQUE (cpf)",
		"address_id BIGINT NOT NULL REFERENCES addresses(id)",
		"status TEXT NOT NULL DEFAULT 'pending'",
		"CONSTRAINT uq_generator_settings_generator UNIQUE (generator_id)",
		"DROP TABLE IF EXISTS generator_settings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	// cep, state and cpf accept whatever registration validation accepts.
	for _, sub := range []string{"cep TEXT NOT NULL", "state TEXT NOT NULL", "cpf TEXT NOT NULL"} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected column %q", sub)
		}
	}
	for _, sub := range []string{"VARCHAR(8)", "VARCHAR(2)", "VARCHAR(11)", "chk_addresses_cep"} {
		if strings.Contains(content, sub) {
			t.Errorf("unexpected restriction %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate shipped migrations: %v", err)
	}
}
