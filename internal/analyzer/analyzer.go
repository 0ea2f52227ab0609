// Package analyzer runs the LLM-driven archival analysis pipeline: table
// grouping, RCC classification, retention column discovery, and purge
// priority assignment.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"archivist/internal/dbase"
	"archivist/internal/retention"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
)

type Analyzer struct {
	llm       llms.Model
	inspector *dbase.Inspector
	catalog   *retention.Manager
}

// New builds an analyzer over an inspector and a model. A nil catalog means
// the built-in RCC set.
func New(llm llms.Model, inspector *dbase.Inspector, catalog *retention.Manager) *Analyzer {
	if catalog == nil {
		catalog = retention.NewManager()
	}
	return &Analyzer{llm: llm, inspector: inspector, catalog: catalog}
}

type Assignment struct {
	Group     string `json:"group"`
	Reasoning string `json:"reasoning"`
}

// Categorize asks the model to partition the tables into purge groups based
// on schemas and foreign key topology.
func (a *Analyzer) Categorize(ctx context.Context, schemas map[string]string, rels map[string]dbase.Relationship) (map[string]GroupDef, map[string]Assignment, error) {
	out, err := chains.Predict(ctx, chains.NewLLMChain(a.llm, categorizationPrompt), map[string]any{
		"table_schemas":      schemaDigest(schemas),
		"relationships_data": relationshipDigest(rels),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("categorize tables: %w", err)
	}

	var parsed struct {
		Groups   map[string]GroupDef   `json:"groups"`
		Analysis map[string]Assignment `json:"analysis"`
	}
	if err := decodeResponse(out, &parsed); err != nil {
		return nil, nil, fmt.Errorf("categorize tables: %w", err)
	}
	if len(parsed.Analysis) == 0 {
		return nil, nil, fmt.Errorf("categorize tables: model assigned no tables")
	}
	return parsed.Groups, parsed.Analysis, nil
}

// ClassifyRCC assigns a Retention Class Code to one table. An assigned code
// missing from the catalog is kept but reported with Known=false.
func (a *Analyzer) ClassifyRCC(ctx context.Context, table, schema string) (*RCCResult, error) {
	out, err := chains.Predict(ctx, chains.NewLLMChain(a.llm, rccClassificationPrompt), map[string]any{
		"table_schema":   schema,
		"table_content":  "",
		"available_rccs": a.catalog.Describe(),
	})
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", table, err)
	}

	var result RCCResult
	if err := decodeResponse(out, &result); err != nil {
		return nil, fmt.Errorf("classify %s: %w", table, err)
	}
	_, result.Known = a.catalog.Rule(result.Code)
	return &result, nil
}

// RetentionColumns finds the retention lookup columns for a table already
// classified into a known RCC.
func (a *Analyzer) RetentionColumns(ctx context.Context, table, schema, code string) (*RetentionColumns, error) {
	rule, ok := a.catalog.Rule(code)
	if !ok {
		return nil, fmt.Errorf("retention columns of %s: unknown RCC %q", table, code)
	}

	cols, err := a.inspector.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("retention columns of %s: %w", table, err)
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	candidates := "none"
	if ranked := a.catalog.RankColumns(code, names); len(ranked) > 0 {
		candidates = strings.Join(ranked, ", ")
	}

	out, err := chains.Predict(ctx, chains.NewLLMChain(a.llm, retentionColumnsPrompt), map[string]any{
		"table_schema":      schema,
		"rcc_kind":          string(rule.Kind),
		"retention_years":   rule.Years,
		"rcc_hints":         strings.Join(rule.LookupHints, ", "),
		"candidate_columns": candidates,
		"retention_context": a.catalog.Context(code),
	})
	if err != nil {
		return nil, fmt.Errorf("retention columns of %s: %w", table, err)
	}

	var result RetentionColumns
	if err := decodeResponse(out, &result); err != nil {
		return nil, fmt.Errorf("retention columns of %s: %w", table, err)
	}
	return &result, nil
}

type Priority struct {
	Priority  int    `json:"intra_group_priority"`
	Reasoning string `json:"reasoning"`
}

// Priorities assigns intra-group purge priorities from FK topology.
func (a *Analyzer) Priorities(ctx context.Context, group string, tables []string, rels map[string]dbase.Relationship) (map[string]Priority, error) {
	var tablesInfo, fkDetails strings.Builder
	for _, t := range tables {
		rel := rels[t]
		fmt.Fprintf(&tablesInfo, "\nTable: %s\n", t)
		fmt.Fprintf(&tablesInfo, "  Has foreign keys: %t\n", rel.HasForeignKeys())
		fmt.Fprintf(&tablesInfo, "  Is referenced: %t\n", rel.IsReferenced())

		if rel.HasForeignKeys() {
			refs := make([]string, 0, len(rel.ForeignKeys))
			for _, fk := range rel.ForeignKeys {
				refs = append(refs, fmt.Sprintf("%s(%s)", fk.ParentTable, fk.ParentColumn))
			}
			fmt.Fprintf(&fkDetails, "%s references: %s\n", t, strings.Join(refs, ", "))
		}
		if rel.IsReferenced() {
			refs := make([]string, 0, len(rel.ReferencedBy))
			for _, ref := range rel.ReferencedBy {
				refs = append(refs, fmt.Sprintf("%s(%s)", ref.ChildTable, ref.ChildColumn))
			}
			fmt.Fprintf(&fkDetails, "%s referenced by: %s\n", t, strings.Join(refs, ", "))
		}
	}

	out, err := chains.Predict(ctx, chains.NewLLMChain(a.llm, priorityPrompt), map[string]any{
		"group_name":                group,
		"tables_with_relationships": tablesInfo.String(),
		"foreign_key_details":       fkDetails.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("priorities of group %s: %w", group, err)
	}

	var parsed struct {
		Analysis map[string]Priority `json:"priority_analysis"`
	}
	if err := decodeResponse(out, &parsed); err != nil {
		return nil, fmt.Errorf("priorities of group %s: %w", group, err)
	}
	return parsed.Analysis, nil
}

// Analyze runs the full pipeline and assembles a report. Any model or
// database failure aborts the run; there is no heuristic fallback.
func (a *Analyzer) Analyze(ctx context.Context) (*Report, error) {
	schemas, err := a.inspector.Schemas(ctx)
	if err != nil {
		return nil, err
	}
	if len(schemas) == 0 {
		return nil, fmt.Errorf("database has no tables to analyze")
	}
	rels, err := a.inspector.Relationships(ctx)
	if err != nil {
		return nil, err
	}

	groups, assignments, err := a.Categorize(ctx, schemas, rels)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*TableAnalysis, len(assignments))
	for _, table := range sortedKeys(assignments) {
		schema, ok := schemas[table]
		if !ok {
			continue
		}
		assignment := assignments[table]
		ta := &TableAnalysis{
			Group:          assignment.Group,
			GroupReasoning: assignment.Reasoning,
			Priority:       2,
		}

		rcc, err := a.ClassifyRCC(ctx, table, schema)
		if err != nil {
			return nil, err
		}
		ta.RCC = rcc

		if rcc.Known {
			ret, err := a.RetentionColumns(ctx, table, schema, rcc.Code)
			if err != nil {
				return nil, err
			}
			ta.Retention = ret
		}
		tables[table] = ta
	}

	grouped := make(map[string][]string)
	for table, ta := range tables {
		grouped[ta.Group] = append(grouped[ta.Group], table)
	}
	for _, group := range sortedKeys(grouped) {
		members := grouped[group]
		sort.Strings(members)
		priorities, err := a.Priorities(ctx, group, members, rels)
		if err != nil {
			return nil, err
		}
		for table, p := range priorities {
			ta, ok := tables[table]
			if !ok || p.Priority < 1 || p.Priority > 3 {
				continue
			}
			ta.Priority = p.Priority
			ta.PriorityReasoning = p.Reasoning
		}
	}

	return &Report{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		TotalTables: len(tables),
		TotalGroups: len(grouped),
		Groups:      groups,
		Tables:      tables,
	}, nil
}

func schemaDigest(schemas map[string]string) string {
	var sb strings.Builder
	for _, table := range sortedKeys(schemas) {
		schema := schemas[table]
		if len(schema) > 400 {
			schema = schema[:400]
		}
		fmt.Fprintf(&sb, "\nTable: %s\n%s\n", table, schema)
	}
	return sb.String()
}

func relationshipDigest(rels map[string]dbase.Relationship) string {
	var sb strings.Builder
	for _, table := range sortedKeys(rels) {
		rel := rels[table]
		fmt.Fprintf(&sb, "\nTable: %s\n", table)
		if rel.HasForeignKeys() {
			refs := make([]string, 0, len(rel.ForeignKeys))
			for _, fk := range rel.ForeignKeys {
				refs = append(refs, fmt.Sprintf("%s (via %s)", fk.ParentTable, fk.Column))
			}
			fmt.Fprintf(&sb, "  References: %s\n", strings.Join(refs, ", "))
		}
		if rel.IsReferenced() {
			refs := make([]string, 0, len(rel.ReferencedBy))
			for _, ref := range rel.ReferencedBy {
				refs = append(refs, fmt.Sprintf("%s (via %s)", ref.ChildTable, ref.ChildColumn))
			}
			fmt.Fprintf(&sb, "  Referenced by: %s\n", strings.Join(refs, ", "))
		}
	}
	return sb.String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
