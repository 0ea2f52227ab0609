package agent

import (
	"context"
	"fmt"
	"strings"

	"archivist/internal/dbase"

	"github.com/tmc/langchaingo/tools"
)

const maxQueryRows = 25

// ListTablesTool enumerates the tables of the connected database.
type ListTablesTool struct {
	Inspector *dbase.Inspector
}

var _ tools.Tool = ListTablesTool{}

func (ListTablesTool) Name() string { return "list_tables" }

func (ListTablesTool) Description() string {
	return "Lists every table in the database. Input is ignored. " +
		"Returns one table name per line."
}

func (t ListTablesTool) Call(ctx context.Context, _ string) (string, error) {
	names, err := t.Inspector.TableNames(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "the database has no tables", nil
	}
	return strings.Join(names, "\n"), nil
}

// SchemaTool renders the column definition of one table.
type SchemaTool struct {
	Inspector *dbase.Inspector
}

var _ tools.Tool = SchemaTool{}

func (SchemaTool) Name() string { return "table_schema" }

func (SchemaTool) Description() string {
	return "Shows the columns and types of one table. " +
		"Input is the exact table name."
}

func (t SchemaTool) Call(ctx context.Context, input string) (string, error) {
	table := strings.TrimSpace(input)
	if table == "" {
		return "", fmt.Errorf("table_schema needs a table name")
	}
	return t.Inspector.TableSchema(ctx, table)
}

// RelationshipsTool summarizes the foreign keys around one table.
type RelationshipsTool struct {
	Inspector *dbase.Inspector
}

var _ tools.Tool = RelationshipsTool{}

func (RelationshipsTool) Name() string { return "table_relationships" }

func (RelationshipsTool) Description() string {
	return "Shows the foreign keys a table holds and the tables that reference it. " +
		"Input is the exact table name."
}

func (t RelationshipsTool) Call(ctx context.Context, input string) (string, error) {
	table := strings.TrimSpace(input)
	if table == "" {
		return "", fmt.Errorf("table_relationships needs a table name")
	}
	rels, err := t.Inspector.Relationships(ctx)
	if err != nil {
		return "", err
	}
	rel, ok := rels[table]
	if !ok {
		return fmt.Sprintf("table %s does not exist", table), nil
	}

	var sb strings.Builder
	for _, fk := range rel.ForeignKeys {
		fmt.Fprintf(&sb, "%s.%s references %s.%s\n", table, fk.Column, fk.ParentTable, fk.ParentColumn)
	}
	for _, ref := range rel.ReferencedBy {
		fmt.Fprintf(&sb, "%s is referenced by %s.%s\n", table, ref.ChildTable, ref.ChildColumn)
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("table %s has no foreign key relationships", table), nil
	}
	return sb.String(), nil
}

// QueryTool executes a read-only SQL query. Anything but a SELECT is
// rejected before it reaches the database.
type QueryTool struct {
	Inspector *dbase.Inspector
}

var _ tools.Tool = QueryTool{}

func (QueryTool) Name() string { return "run_query" }

func (QueryTool) Description() string {
	return "Runs a read-only SQL SELECT against the database and returns the rows. " +
		"Input is a single SELECT statement; other statements are rejected."
}

func (t QueryTool) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), ";"))
	if !strings.HasPrefix(strings.ToUpper(query), "SELECT") {
		return "", fmt.Errorf("run_query only accepts SELECT statements")
	}

	cols, rows, err := t.Inspector.Query(ctx, query)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(cols, " | "))
	sb.WriteByte('\n')
	for i, row := range rows {
		if i >= maxQueryRows {
			fmt.Fprintf(&sb, "... %d more rows truncated\n", len(rows)-maxQueryRows)
			break
		}
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
