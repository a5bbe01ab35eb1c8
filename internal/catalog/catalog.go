package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/fsq/pkg/flexsearch"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by Lookup when no code is registered for a type.
var ErrNotFound = errors.New("type not registered")

// Entry is one registered type.
type Entry struct {
	TypeName    string `json:"type_name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Seq         int64  `json:"seq"`
}

// Catalog stores type code registrations.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens a catalog database at path.
// Applies pragmas and schema; safe to call on an existing catalog.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// New wraps an already prepared database handle. The schema must exist.
func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Register maps typeName to code, replacing any previous mapping.
func (c *Catalog) Register(ctx context.Context, typeName, code, description string) error {
	typeName, code = clean(typeName), clean(code)
	if typeName == "" {
		return errors.New("register: type name is required")
	}
	if code == "" {
		return fmt.Errorf("register %s: code is required", typeName)
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO type_codes (type_name, code, description, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM type_codes))
		ON CONFLICT(type_name) DO UPDATE SET
			code = excluded.code,
			description = excluded.description,
			seq = excluded.seq
	`, typeName, code, description)
	if err != nil {
		return fmt.Errorf("register %s: %w", typeName, err)
	}
	return nil
}

// Lookup returns the code registered for typeName.
// Returns an error wrapping ErrNotFound when there is none.
func (c *Catalog) Lookup(ctx context.Context, typeName string) (string, error) {
	typeName = clean(typeName)

	var code string
	err := c.db.QueryRowContext(ctx,
		"SELECT code FROM type_codes WHERE type_name = ?", typeName,
	).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup %s: %w", typeName, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", typeName, err)
	}
	return code, nil
}

// List returns every registration ordered by type name.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT type_name, code, description, seq
		FROM type_codes
		ORDER BY type_name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.TypeName, &e.Code, &e.Description, &e.Seq); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	return entries, nil
}

// Delete removes the registration for typeName and reports whether one existed.
func (c *Catalog) Delete(ctx context.Context, typeName string) (bool, error) {
	typeName = clean(typeName)

	res, err := c.db.ExecContext(ctx, "DELETE FROM type_codes WHERE type_name = ?", typeName)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", typeName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", typeName, err)
	}
	return n > 0, nil
}

// ResolveType implements flexsearch.TypeResolver by looking up the bare
// Go type name. Unregistered types fail with an invalid type error.
func (c *Catalog) ResolveType(t reflect.Type) (string, error) {
	code, err := c.Lookup(context.Background(), t.Name())
	if errors.Is(err, ErrNotFound) {
		return "", flexsearch.NewInvalidType(t.String())
	}
	return code, err
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
