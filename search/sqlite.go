package search

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

/*
SQLLocator looks names up in a sqlite catalog, a table mapping a lookup key to
an absolute path. This serves trees that are not filesystems, such as
catalogs, where an external database already knows where each entry lives.
*/

////////////////////////////////////////////////////////////////////////////////

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLLocator is a Locator backed by a SQL table.
type SQLLocator struct {
	db        *sql.DB
	exact     string
	substring string
}

// NewSQLLocator returns a locator selecting pathColumn from table where
// keyColumn matches the query.
func NewSQLLocator(db *sql.DB, table, keyColumn, pathColumn string) (*SQLLocator, error) {
	for _, name := range []string{table, keyColumn, pathColumn} {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("invalid identifier %q", name)
		}
	}
	base := fmt.Sprintf("SELECT %s FROM %s WHERE %s", pathColumn, table, keyColumn) // #nosec G201
	return &SQLLocator{
		db:        db,
		exact:     base + " = ? ORDER BY " + pathColumn + " LIMIT ?",
		substring: base + ` LIKE ? ESCAPE '\' ORDER BY ` + pathColumn + " LIMIT ?",
	}, nil
}

// OpenCatalog opens a sqlite database read-only and returns a locator over
// it, along with the database handle for the caller to close.
func OpenCatalog(
	ctx context.Context,
	path string,
	table string,
	keyColumn string,
	pathColumn string,
) (*SQLLocator, *sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping catalog %s: %w", path, err)
	}
	locator, err := NewSQLLocator(db, table, keyColumn, pathColumn)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return locator, db, nil
}

// Locate returns the catalog paths whose key equals query, or contains it
// when matching alternatives.
func (l *SQLLocator) Locate(ctx context.Context, query string, opts Options) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}
	stmt, arg := l.exact, query
	if opts.Match {
		stmt, arg = l.substring, "%"+escapeLike(query)+"%"
	}
	rows, err := l.db.QueryContext(ctx, stmt, arg, opts.limit())
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()
	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return paths, nil
}

func (l *SQLLocator) String() string {
	return "sqlite"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
