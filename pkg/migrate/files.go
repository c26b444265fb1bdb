package migrate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	versionLayout = "20060102150405"

	markerUp             = "-- +goose Up"
	markerDown           = "-- +goose Down"
	markerStatementBegin = "-- +goose StatementBegin"
	markerStatementEnd   = "-- +goose StatementEnd"
)

var (
	fileNameRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	slugRe     = regexp.MustCompile(`[^a-z0-9]+`)

	errDirRequired = errors.New("migrations dir is required")
)

// File is one parsed migration file name.
type File struct {
	Version string
	Slug    string
}

// Name renders the on-disk file name.
func (f File) Name() string {
	return f.Version + "_" + f.Slug + ".sql"
}

// ParseFileName splits "<YYYYMMDDHHMMSS>_<slug>.sql".
func ParseFileName(name string) (File, error) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return File{}, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
	}
	if _, err := time.Parse(versionLayout, m[1]); err != nil {
		return File{}, fmt.Errorf("invalid migration version in %q: %w", name, err)
	}
	return File{Version: m[1], Slug: m[2]}, nil
}

func slugify(name string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

const sqlTemplate = markerUp + `
` + markerStatementBegin + `
-- %[1]s
` + markerStatementEnd + `

` + markerDown + `
` + markerStatementBegin + `
-- rollback %[1]s
` + markerStatementEnd + `
`

// CreateSQLMigration writes an empty goose migration into dir, stamped with
// the current UTC time.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createAt(dir, name, time.Now().UTC())
}

func createAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", errDirRequired
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migrations dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, File{Version: now.Format(versionLayout), Slug: slug}.Name())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("migration already exists: %s", path)
		}
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	if _, err := fmt.Fprintf(f, sqlTemplate, slug); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close migration %q: %w", path, err)
	}
	return path, nil
}

// ValidateDir checks every .sql file in dir: well-formed name, unique
// version, an Up section before a Down section, balanced statement blocks.
func ValidateDir(dir string) error {
	if dir == "" {
		return errDirRequired
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir %q: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	byVersion := make(map[string]string, len(names))
	for _, name := range names {
		file, err := ParseFileName(name)
		if err != nil {
			return err
		}
		if prev, ok := byVersion[file.Version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", file.Version, prev, name)
		}
		byVersion[file.Version] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}
		if err := checkMarkers(body); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}
	return nil
}

func checkMarkers(body []byte) error {
	var (
		up, down bool
		open     bool
	)
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case markerUp:
			up = true
		case markerDown:
			if !up {
				return errors.New("Down section before Up section")
			}
			if open {
				return errors.New("unterminated statement block before Down section")
			}
			down = true
		case markerStatementBegin:
			if open {
				return errors.New("nested StatementBegin")
			}
			open = true
		case markerStatementEnd:
			if !open {
				return errors.New("StatementEnd without StatementBegin")
			}
			open = false
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	switch {
	case !up:
		return fmt.Errorf("missing %q", markerUp)
	case !down:
		return fmt.Errorf("missing %q", markerDown)
	case open:
		return errors.New("unterminated statement block")
	}
	return nil
}
