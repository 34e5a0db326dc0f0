// internal/importer/importer.go
package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ruafit/ruafit/internal/roster"
	"github.com/ruafit/ruafit/internal/sports"
)

// ParseFile decodes a structured import file: a JSON object mapping
// sport code strings to arrays of team-name strings. Any other shape is
// rejected with an explanatory error. Team lists come back keyed by the
// trimmed display-cased sport code (the caller derives lookup keys) and
// normalized.
func ParseFile(data []byte) (map[string][]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("import file must be a JSON object of sport names to team lists: %w", err)
	}

	result := make(map[string][]string, len(raw))
	for code, value := range raw {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		var entries []any
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, fmt.Errorf("import entry %q must be a list of team names", code)
		}
		result[code] = roster.Normalize(entries)
	}
	return result, nil
}

// FreeformResult is the outcome of parsing pasted freeform text.
// Teams is keyed by sport lookup key; Unparsed holds lines that matched
// no format; IgnoredLabels holds sport labels that matched no known
// sport code.
type FreeformResult struct {
	Teams         map[string][]string
	Unparsed      []string
	IgnoredLabels []string
}

// freeform separators tried most-specific first so team names
// containing commas survive under tab or " - " separated input.
var separators = []string{"\t", " - ", ","}

// ParseFreeform parses pasted text where each line is either
// "<Sport Label><separator><Team Name>" (separator: comma, tab or
// " - "), or a "<Header>:" line introducing bare team-name lines that
// run until the next header. Sport labels are matched case-insensitively
// against knownCodes. Lines under an ignored header are dropped along
// with it; the label itself is reported once.
func ParseFreeform(text string, knownCodes []string) FreeformResult {
	known := make(map[string]struct{}, len(knownCodes))
	for _, code := range knownCodes {
		if key := sports.LookupKey(code); key != "" {
			known[key] = struct{}{}
		}
	}

	result := FreeformResult{Teams: make(map[string][]string)}
	ignored := make(map[string]struct{})

	currentKey := ""
	underIgnoredHeader := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if label, ok := headerLabel(line); ok {
			key := sports.LookupKey(label)
			if _, exists := known[key]; exists {
				currentKey = key
				underIgnoredHeader = false
			} else {
				currentKey = ""
				underIgnoredHeader = true
				if _, seen := ignored[key]; !seen {
					ignored[key] = struct{}{}
					result.IgnoredLabels = append(result.IgnoredLabels, label)
				}
			}
			continue
		}

		if label, team, ok := splitLabelled(line); ok {
			key := sports.LookupKey(label)
			if _, exists := known[key]; exists {
				result.Teams[key] = append(result.Teams[key], team)
			} else if _, seen := ignored[key]; !seen {
				ignored[key] = struct{}{}
				result.IgnoredLabels = append(result.IgnoredLabels, label)
			}
			continue
		}

		if currentKey != "" {
			result.Teams[currentKey] = append(result.Teams[currentKey], line)
			continue
		}
		if underIgnoredHeader {
			continue
		}
		result.Unparsed = append(result.Unparsed, line)
	}

	for key, teams := range result.Teams {
		result.Teams[key] = roster.NormalizeStrings(teams)
	}
	return result
}

func headerLabel(line string) (string, bool) {
	if !strings.HasSuffix(line, ":") {
		return "", false
	}
	label := strings.TrimSpace(strings.TrimSuffix(line, ":"))
	if label == "" || strings.ContainsAny(label, "\t,") {
		return "", false
	}
	return label, true
}

func splitLabelled(line string) (label, team string, ok bool) {
	for _, sep := range separators {
		parts := strings.SplitN(line, sep, 2)
		if len(parts) != 2 {
			continue
		}
		label = strings.TrimSpace(parts[0])
		team = strings.TrimSpace(parts[1])
		if label == "" || team == "" {
			continue
		}
		return label, team, true
	}
	return "", "", false
}
