// Package dbase inspects relational schemas for the analysis pipeline:
// table names, column definitions, and foreign key topology.
package dbase

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

type Column struct {
	Name string
	Type string
}

// ForeignKey is an outgoing reference from a table to its parent.
type ForeignKey struct {
	Column       string
	ParentTable  string
	ParentColumn string
}

// Reference is an incoming foreign key from a child table.
type Reference struct {
	ChildTable  string
	ChildColumn string
}

// Relationship summarizes how one table is wired into the schema.
type Relationship struct {
	ForeignKeys  []ForeignKey
	ReferencedBy []Reference
}

// HasForeignKeys reports whether the table references any parent.
func (r Relationship) HasForeignKeys() bool { return len(r.ForeignKeys) > 0 }

// IsReferenced reports whether any child table points at this one.
func (r Relationship) IsReferenced() bool { return len(r.ReferencedBy) > 0 }

type dialect interface {
	tableNames(ctx context.Context, db *sql.DB) ([]string, error)
	columns(ctx context.Context, db *sql.DB, table string) ([]Column, error)
	foreignKeys(ctx context.Context, db *sql.DB, table string) ([]ForeignKey, error)
}

// Inspector reads schema metadata from a live database.
type Inspector struct {
	db      *sql.DB
	dialect dialect
	ownedDB bool
}

// Open connects to a database by dialect name ("mysql" or "sqlite") and DSN.
func Open(dialectName, dsn string) (*Inspector, error) {
	d, err := dialectFor(dialectName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialectName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialectName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s database: %w", dialectName, err)
	}
	return &Inspector{db: db, dialect: d, ownedDB: true}, nil
}

// New wraps an existing connection pool without taking ownership of it.
func New(db *sql.DB, dialectName string) (*Inspector, error) {
	d, err := dialectFor(dialectName)
	if err != nil {
		return nil, err
	}
	return &Inspector{db: db, dialect: d}, nil
}

func dialectFor(name string) (dialect, error) {
	switch name {
	case DialectMySQL:
		return mysqlDialect{}, nil
	case DialectSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", name)
	}
}

func (i *Inspector) Close() error {
	if !i.ownedDB {
		return nil
	}
	return i.db.Close()
}

func (i *Inspector) TableNames(ctx context.Context) ([]string, error) {
	names, err := i.dialect.tableNames(ctx, i.db)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (i *Inspector) Columns(ctx context.Context, table string) ([]Column, error) {
	cols, err := i.dialect.columns(ctx, i.db, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	return cols, nil
}

// TableSchema renders one table definition as a single line, e.g.
// "orders: id INTEGER, customer_id INTEGER, created_at TIMESTAMP".
func (i *Inspector) TableSchema(ctx context.Context, table string) (string, error) {
	cols, err := i.Columns(ctx, table)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, c.Name+" "+c.Type)
	}
	return table + ": " + strings.Join(parts, ", "), nil
}

// Schemas returns the rendered definition of every table.
func (i *Inspector) Schemas(ctx context.Context) (map[string]string, error) {
	tables, err := i.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(tables))
	for _, t := range tables {
		schema, err := i.TableSchema(ctx, t)
		if err != nil {
			return nil, err
		}
		out[t] = schema
	}
	return out, nil
}

// Query runs a query and returns column names plus stringified rows. Guarding
// against writes is the caller's job.
func (i *Inspector) Query(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]sql.RawBytes, len(cols))
		dest := make([]any, len(cols))
		for idx := range raw {
			dest[idx] = &raw[idx]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}
		record := make([]string, len(cols))
		for idx, b := range raw {
			if b == nil {
				record[idx] = "NULL"
				continue
			}
			record[idx] = string(b)
		}
		out = append(out, record)
	}
	return cols, out, rows.Err()
}

// Relationships maps every table to its outgoing foreign keys and the
// incoming references derived from the other tables' keys.
func (i *Inspector) Relationships(ctx context.Context) (map[string]Relationship, error) {
	tables, err := i.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Relationship, len(tables))
	for _, t := range tables {
		fks, err := i.dialect.foreignKeys(ctx, i.db, t)
		if err != nil {
			return nil, fmt.Errorf("foreign keys of %s: %w", t, err)
		}
		rel := out[t]
		rel.ForeignKeys = fks
		out[t] = rel
	}
	for child, rel := range out {
		for _, fk := range rel.ForeignKeys {
			parent, ok := out[fk.ParentTable]
			if !ok {
				continue
			}
			parent.ReferencedBy = append(parent.ReferencedBy, Reference{
				ChildTable:  child,
				ChildColumn: fk.Column,
			})
			out[fk.ParentTable] = parent
		}
	}
	for _, rel := range out {
		sort.Slice(rel.ReferencedBy, func(a, b int) bool {
			return rel.ReferencedBy[a].ChildTable < rel.ReferencedBy[b].ChildTable
		})
	}
	return out, nil
}
