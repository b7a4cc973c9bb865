package db

import "strings"

// PrimitiveTag maps a SQL column type onto a schema primitive tag. Types
// without a sensible tag are returned lower-cased so they resolve to unknown.
func PrimitiveTag(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	base := t
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch base {
	case "uuid":
		return "uuid"
	case "bool", "boolean":
		return "bool"
	case "time", "timetz", "time with time zone", "time without time zone":
		return "time"
	case "date", "datetime", "timestamp", "timestamptz",
		"timestamp with time zone", "timestamp without time zone":
		return "datetime"
	case "json", "jsonb":
		return "object"
	case "tinyint":
		// MySQL convention for booleans
		if t == "tinyint(1)" {
			return "bool"
		}
		return "int"
	case "int", "int2", "int4", "int8", "integer", "smallint", "mediumint", "bigint",
		"serial", "smallserial", "bigserial":
		return "int"
	case "numeric", "decimal", "real", "float", "float4", "float8", "double",
		"double precision", "money":
		return "number"
	case "text", "varchar", "char", "character", "character varying", "bpchar",
		"citext", "name", "enum", "set", "tinytext", "mediumtext", "longtext", "clob":
		return "string"
	case "interval", "point", "bytea", "blob":
		return base
	case "user-defined":
		// Postgres enums and domains
		return "string"
	}

	// SQLite type affinity
	switch {
	case strings.Contains(base, "int"):
		return "int"
	case strings.Contains(base, "char"), strings.Contains(base, "text"), strings.Contains(base, "clob"):
		return "string"
	case strings.Contains(base, "real"), strings.Contains(base, "floa"), strings.Contains(base, "doub"):
		return "number"
	case strings.Contains(base, "bool"):
		return "bool"
	}

	return base
}

// postgresElementType returns the element type of a Postgres array udt name
// such as "_int4" or "_text".
func postgresElementType(udtName string) string {
	return strings.TrimPrefix(udtName, "_")
}
