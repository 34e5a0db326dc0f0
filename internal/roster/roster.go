// internal/roster/roster.go
package roster

import "strings"

// Normalize cleans an arbitrary decoded-JSON list into an ordered team
// roster: entries are trimmed, blanks and non-strings dropped, and
// duplicates removed case-insensitively. The first occurrence wins and
// keeps its casing. A nil or non-list input yields an empty roster.
func Normalize(values []any) []string {
	if len(values) == 0 {
		return []string{}
	}
	raw := make([]string, 0, len(values))
	for _, value := range values {
		name, ok := value.(string)
		if !ok {
			continue
		}
		raw = append(raw, name)
	}
	return NormalizeStrings(raw)
}

// NormalizeStrings is Normalize for inputs already known to be strings.
func NormalizeStrings(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, name)
	}
	return result
}

// Contains reports whether roster already holds name, compared
// case-insensitively against trimmed values.
func Contains(teams []string, name string) bool {
	target := strings.ToLower(strings.TrimSpace(name))
	for _, team := range teams {
		if strings.ToLower(strings.TrimSpace(team)) == target {
			return true
		}
	}
	return false
}
