package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/sdbgen/internal/schema"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db     *sql.DB
	schema string
}

// NewMySQLClient creates a new MySQL client. When schemaName is empty the
// database named in the DSN is used.
func NewMySQLClient(ctx context.Context, dsn, schemaName string) (*MySQLClient, error) {
	if schemaName == "" {
		name, err := ParseDatabaseName(dsn)
		if err != nil {
			return nil, err
		}
		schemaName = name
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db, schema: schemaName}, nil
}

// ParseDatabaseName returns the database name of a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("MySQL DSN has no database name")
	}
	return cfg.DBName, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// Structures extracts descriptors for the requested tables, or for every
// base table of the database
func (c *MySQLClient) Structures(ctx context.Context, tables []string) (*schema.Structures, error) {
	names, err := c.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return collect(ctx, names, c.columns)
}

func (c *MySQLClient) tableNames(ctx context.Context, requested []string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.db.QueryContext(ctx, query, c.schema)
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

func (c *MySQLClient) columns(ctx context.Context, table string) ([]column, error) {
	refs, err := c.foreignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys of %s: %w", table, err)
	}

	query := `
		SELECT column_name, column_type
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := c.db.QueryContext(ctx, query, c.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var name, columnType string
		if err := rows.Scan(&name, &columnType); err != nil {
			return nil, err
		}
		columns = append(columns, column{Name: name, Type: columnType, RefTable: refs[name]})
	}

	return columns, rows.Err()
}

// foreignKeys maps single-column foreign keys to their target table
func (c *MySQLClient) foreignKeys(ctx context.Context, table string) (map[string]string, error) {
	query := `
		SELECT k.column_name, k.referenced_table_name
		FROM information_schema.key_column_usage k
		WHERE k.table_schema = ?
			AND k.table_name = ?
			AND k.referenced_table_name IS NOT NULL
			AND (
				SELECT count(*) FROM information_schema.key_column_usage k2
				WHERE k2.constraint_schema = k.constraint_schema
					AND k2.table_name = k.table_name
					AND k2.constraint_name = k.constraint_name
			) = 1
	`

	rows, err := c.db.QueryContext(ctx, query, c.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]string)
	for rows.Next() {
		var col, target string
		if err := rows.Scan(&col, &target); err != nil {
			return nil, err
		}
		refs[col] = target
	}

	return refs, rows.Err()
}
