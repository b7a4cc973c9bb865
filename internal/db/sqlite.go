package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/sdbgen/internal/schema"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient creates a new SQLite client
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection
func (c *SQLiteClient) DB() *sql.DB {
	return c.db
}

// Structures extracts descriptors for the requested tables, or for every
// user table of the database
func (c *SQLiteClient) Structures(ctx context.Context, tables []string) (*schema.Structures, error) {
	names, err := c.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return collect(ctx, names, c.columns)
}

func (c *SQLiteClient) tableNames(ctx context.Context, requested []string) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selectTables(tables, requested), nil
}

func (c *SQLiteClient) columns(ctx context.Context, table string) ([]column, error) {
	refs, err := c.foreignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys of %s: %w", table, err)
	}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, column{Name: name, Type: colType, RefTable: refs[name]})
	}

	return columns, rows.Err()
}

// foreignKeys maps single-column foreign keys to their target table
func (c *SQLiteClient) foreignKeys(ctx context.Context, table string) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type fk struct {
		from   string
		target string
		width  int
	}
	keys := make(map[int]*fk)
	var order []int

	for rows.Next() {
		var id, seq int
		var target, from, onUpdate, onDelete, match string
		var to sql.NullString

		if err := rows.Scan(&id, &seq, &target, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		k, ok := keys[id]
		if !ok {
			k = &fk{from: from, target: target}
			keys[id] = k
			order = append(order, id)
		}
		k.width++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make(map[string]string)
	for _, id := range order {
		if k := keys[id]; k.width == 1 {
			refs[k.from] = k.target
		}
	}
	return refs, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
