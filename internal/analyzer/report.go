package analyzer

import (
	"sort"
	"time"
)

// GroupDef describes one dynamically created purge group.
type GroupDef struct {
	Description   string `json:"description"`
	PrimaryEntity string `json:"primary_entity"`
}

// RCCResult is the model's retention class assignment for one table. Known
// reports whether the assigned code exists in the catalog; an unknown code is
// kept for review rather than discarded.
type RCCResult struct {
	Code      string `json:"assigned_rcc"`
	Reasoning string `json:"reasoning"`
	Known     bool   `json:"known"`
}

// RetentionColumns lists the columns that anchor a table's retention period.
type RetentionColumns struct {
	Columns   []string `json:"retention_lookup_columns"`
	Reasoning string   `json:"reasoning"`
}

type TableAnalysis struct {
	Group             string            `json:"group"`
	GroupReasoning    string            `json:"group_reasoning,omitempty"`
	RCC               *RCCResult        `json:"rcc,omitempty"`
	Retention         *RetentionColumns `json:"retention,omitempty"`
	Priority          int               `json:"intra_group_priority"`
	PriorityReasoning string            `json:"priority_reasoning,omitempty"`
}

// Report is the assembled result of one analysis run.
type Report struct {
	ID          string                    `json:"id"`
	Timestamp   time.Time                 `json:"timestamp"`
	TotalTables int                       `json:"total_tables"`
	TotalGroups int                       `json:"total_groups"`
	Groups      map[string]GroupDef       `json:"groups"`
	Tables      map[string]*TableAnalysis `json:"tables"`
}

// GroupNames returns the group names in stable order.
func (r *Report) GroupNames() []string {
	names := make(map[string]struct{}, len(r.Groups))
	for name := range r.Groups {
		names[name] = struct{}{}
	}
	for _, ta := range r.Tables {
		names[ta.Group] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GroupTables returns a group's tables ordered by purge priority, then name.
func (r *Report) GroupTables(group string) []string {
	var tables []string
	for name, ta := range r.Tables {
		if ta.Group == group {
			tables = append(tables, name)
		}
	}
	sort.Slice(tables, func(i, j int) bool {
		a, b := r.Tables[tables[i]], r.Tables[tables[j]]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return tables[i] < tables[j]
	})
	return tables
}
