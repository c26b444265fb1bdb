package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// ErrUnsupportedDriver is returned when SQL migrations are requested for a
// store other than postgres.
var ErrUnsupportedDriver = errors.New("sql migrations only support the postgres driver")

// Run applies up, down or status against a postgres database and returns one
// line per migration touched or listed.
func Run(ctx context.Context, db *sql.DB, dir, command string) ([]string, error) {
	return run(ctx, goose.DialectPostgres, db, dir, command)
}

// MigrateToVersion moves the schema up or down until version is the newest
// applied migration.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir, version string) ([]string, error) {
	return migrateTo(ctx, goose.DialectPostgres, db, dir, version)
}

func run(ctx context.Context, dialect goose.Dialect, db *sql.DB, dir, command string) ([]string, error) {
	switch command {
	case "up", "down", "status":
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
	provider, err := newProvider(dialect, db, dir)
	if err != nil {
		return nil, err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return nil, fmt.Errorf("goose up: %w", err)
		}
		return describeResults(results), nil
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return nil, fmt.Errorf("goose down: %w", err)
		}
		return describeResults([]*goose.MigrationResult{result}), nil
	default:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("goose status: %w", err)
		}
		return describeStatuses(statuses), nil
	}
}

func migrateTo(ctx context.Context, dialect goose.Dialect, db *sql.DB, dir, version string) ([]string, error) {
	target, err := parseVersion(version)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(dialect, db, dir)
	if err != nil {
		return nil, err
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil, nil
	case current < target:
		if results, err = provider.UpTo(ctx, target); err != nil {
			return nil, fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if results, err = provider.DownTo(ctx, target); err != nil {
			return nil, fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return describeResults(results), nil
}

// newProvider does not own db; the caller closes it.
func newProvider(dialect goose.Dialect, db *sql.DB, dir string) (*goose.Provider, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if dir == "" {
		return nil, errDirRequired
	}
	provider, err := goose.NewProvider(dialect, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load migrations from %s: %w", dir, err)
	}
	return provider, nil
}

func parseVersion(version string) (int64, error) {
	if version == "" {
		return 0, errors.New("version is required")
	}
	if _, err := time.Parse(versionLayout, version); err != nil {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", version, err)
	}
	return strconv.ParseInt(version, 10, 64)
}

func describeResults(results []*goose.MigrationResult) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-4s %d %s (%s)", r.Direction, r.Source.Version, filepath.Base(r.Source.Path), r.Duration.Round(time.Millisecond)))
	}
	return lines
}

func describeStatuses(statuses []*goose.MigrationStatus) []string {
	lines := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s == nil || s.Source == nil {
			continue
		}
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		lines = append(lines, fmt.Sprintf("%-7s %d %s %s", s.State, s.Source.Version, filepath.Base(s.Source.Path), applied))
	}
	return lines
}
