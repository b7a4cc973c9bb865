package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/sdbgen/internal/schema"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn   *pgx.Conn
	schema string
}

// NewPostgresClient creates a new PostgreSQL client reading tables of
// schemaName
func NewPostgresClient(ctx context.Context, connString, schemaName string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if schemaName == "" {
		schemaName = "public"
	}
	return &PostgresClient{conn: conn, schema: schemaName}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	return c.conn.Close(context.Background())
}

// Structures extracts descriptors for the requested tables, or for every
// base table of the schema
func (c *PostgresClient) Structures(ctx context.Context, tables []string) (*schema.Structures, error) {
	names, err := c.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return collect(ctx, names, c.columns)
}

func (c *PostgresClient) tableNames(ctx context.Context, requested []string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.conn.Query(ctx, query, c.schema)
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

func (c *PostgresClient) columns(ctx context.Context, table string) ([]column, error) {
	refs, err := c.foreignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys of %s: %w", table, err)
	}

	query := `
		SELECT column_name, data_type, udt_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := c.conn.Query(ctx, query, c.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var name, dataType, udtName string
		if err := rows.Scan(&name, &dataType, &udtName); err != nil {
			return nil, err
		}

		col := column{Name: name, Type: dataType, RefTable: refs[name]}
		switch dataType {
		case "ARRAY":
			col.IsArray = true
			col.Type = postgresElementType(udtName)
		case "USER-DEFINED":
			col.Type = "user-defined"
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// foreignKeys maps single-column foreign keys to their target table
func (c *PostgresClient) foreignKeys(ctx context.Context, table string) (map[string]string, error) {
	query := `
		SELECT kcu.column_name, ccu.table_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
			AND (
				SELECT count(*) FROM information_schema.key_column_usage k
				WHERE k.constraint_name = tc.constraint_name
					AND k.table_schema = tc.table_schema
			) = 1
	`

	rows, err := c.conn.Query(ctx, query, c.schema, table)
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
