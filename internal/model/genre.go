package model

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Genre groups stations under a name plus a set of sub-genre labels.
type Genre struct {
	ID        string         `db:"id"          json:"id"`
	Name      string         `db:"name"        json:"name"`
	SubGenres pq.StringArray `db:"sub_genres"  json:"sub_genres"`
	CreatedAt time.Time      `db:"created_at"  json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"  json:"updated_at"`
}

// NormalizeLabels deduplicates labels case-insensitively, keeping the
// first-seen spelling and order. Blank entries are dropped.
func NormalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}

// ContainsLabel reports whether set contains label, case-insensitively.
func ContainsLabel(set []string, label string) bool {
	for _, s := range set {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}

// IntersectLabels returns the members of selected that are still declared
// in declared, preserving the order of selected.
func IntersectLabels(selected, declared []string) []string {
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if ContainsLabel(declared, s) {
			out = append(out, s)
		}
	}
	return out
}
