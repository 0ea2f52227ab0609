package retention

import (
	"sort"
	"strings"
)

// RankColumns orders a table's columns by how well their names match the
// rule's lookup hints, best match first. Columns with no lexical overlap are
// dropped; an unknown code yields nil.
func (m *Manager) RankColumns(code string, columns []string) []string {
	rule, ok := m.rules[code]
	if !ok || len(rule.LookupHints) == 0 {
		return nil
	}

	exact := make(map[string]struct{}, len(rule.LookupHints))
	hintTokens := make(map[string]struct{})
	for _, hint := range rule.LookupHints {
		hint = strings.ToLower(strings.TrimSpace(hint))
		exact[hint] = struct{}{}
		for token := range nameTokens(hint) {
			hintTokens[token] = struct{}{}
		}
	}

	type scored struct {
		name  string
		score int
	}
	var sc []scored
	for _, col := range columns {
		lc := strings.ToLower(strings.TrimSpace(col))
		score := 0
		// An exact hint match outranks any partial token overlap.
		if _, ok := exact[lc]; ok {
			score += 10
		}
		for token := range nameTokens(lc) {
			if _, ok := hintTokens[token]; ok {
				score++
			}
		}
		if score > 0 {
			sc = append(sc, scored{name: col, score: score})
		}
	}
	if len(sc) == 0 {
		return nil
	}

	sort.Slice(sc, func(i, j int) bool {
		if sc[i].score != sc[j].score {
			return sc[i].score > sc[j].score
		}
		return sc[i].name < sc[j].name
	})
	out := make([]string, 0, len(sc))
	for _, s := range sc {
		out = append(out, s.name)
	}
	return out
}

// nameTokens splits a snake_case identifier into its lowercase word tokens.
func nameTokens(s string) map[string]struct{} {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	set := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if len(p) < 2 {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}
