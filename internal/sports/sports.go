// internal/sports/sports.go
package sports

import (
	"strings"

	"github.com/ruafit/ruafit/internal/roster"
)

// Sport is one competition category in the event programme.
type Sport struct {
	Code     string   `json:"code"`
	Location string   `json:"location"`
	Notes    string   `json:"notes"`
	DrawURL  string   `json:"drawUrl,omitempty"`
	Teams    []string `json:"teams"`
	Draw     Draw     `json:"draw"`
}

// Stub is a user-created sport before teams or draws are attached.
type Stub struct {
	Code     string `json:"code"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// Match is a single pool-play fixture.
type Match struct {
	Home  string `json:"home"`
	Away  string `json:"away"`
	Round int    `json:"round"`
}

// Pairing is a single bracket fixture; winners are not tracked.
type Pairing struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Round is one named elimination round.
type Round struct {
	Name    string    `json:"name"`
	Matches []Pairing `json:"matches"`
}

// CustomRounds is a saved single-elimination bracket structure.
// TeamCount always equals 2^RoundCount.
type CustomRounds struct {
	RoundCount  int     `json:"roundCount"`
	TeamCount   int     `json:"teamCount"`
	PairingMode string  `json:"pairingMode"`
	Rounds      []Round `json:"rounds"`
}

// Draw is the per-sport schedule state.
type Draw struct {
	PoolMatches  []Match       `json:"poolMatches,omitempty"`
	CustomRounds *CustomRounds `json:"customRounds,omitempty"`
}

// IsEmpty reports whether the draw holds no generated state at all.
func (d Draw) IsEmpty() bool {
	return len(d.PoolMatches) == 0 && d.CustomRounds == nil
}

// LookupKey derives the canonical identity used for registry lookups
// and collision detection: the code trimmed and lower-cased.
func LookupKey(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Merge combines built-in sports with user-created sports and imported
// team overrides into one canonical list. Built-ins come first in
// source order; user sports follow in source order, except that a user
// sport whose lookup key collides with a built-in (or an earlier user
// sport) is dropped. Entries without a non-empty code are dropped.
// The ordering is a contract relied on by rendering and tests.
func Merge(builtIns []Sport, userSports []Stub, overrides map[string][]string, draws map[string]Draw) []Sport {
	merged := make([]Sport, 0, len(builtIns)+len(userSports))
	occupied := make(map[string]struct{}, len(builtIns)+len(userSports))

	for _, sport := range builtIns {
		code := strings.TrimSpace(sport.Code)
		if code == "" {
			continue
		}
		key := LookupKey(code)
		if _, taken := occupied[key]; taken {
			continue
		}
		occupied[key] = struct{}{}
		merged = append(merged, Sport{
			Code:     code,
			Location: strings.TrimSpace(sport.Location),
			Notes:    strings.TrimSpace(sport.Notes),
			DrawURL:  strings.TrimSpace(sport.DrawURL),
			Teams:    teamsFor(key, sport.Teams, overrides),
			Draw:     SanitizeDraw(draws[key]),
		})
	}

	for _, stub := range userSports {
		code := strings.TrimSpace(stub.Code)
		if code == "" {
			continue
		}
		key := LookupKey(code)
		if _, taken := occupied[key]; taken {
			continue
		}
		occupied[key] = struct{}{}
		merged = append(merged, Sport{
			Code:     code,
			Location: strings.TrimSpace(stub.Location),
			Notes:    strings.TrimSpace(stub.Notes),
			Teams:    teamsFor(key, nil, overrides),
			Draw:     SanitizeDraw(draws[key]),
		})
	}

	return merged
}

func teamsFor(key string, fallback []string, overrides map[string][]string) []string {
	if override, ok := overrides[key]; ok {
		return roster.NormalizeStrings(override)
	}
	return roster.NormalizeStrings(fallback)
}

// SanitizeDraw validates a draw of uncertain shape, dropping matches
// with blank participants and rounds with no surviving matches.
func SanitizeDraw(draw Draw) Draw {
	clean := Draw{}
	for _, match := range draw.PoolMatches {
		home := strings.TrimSpace(match.Home)
		away := strings.TrimSpace(match.Away)
		if home == "" || away == "" || match.Round < 1 {
			continue
		}
		clean.PoolMatches = append(clean.PoolMatches, Match{Home: home, Away: away, Round: match.Round})
	}
	if cr := sanitizeCustomRounds(draw.CustomRounds); cr != nil {
		clean.CustomRounds = cr
	}
	return clean
}

func sanitizeCustomRounds(cr *CustomRounds) *CustomRounds {
	if cr == nil || cr.RoundCount < 1 || len(cr.Rounds) == 0 {
		return nil
	}
	clean := &CustomRounds{
		RoundCount:  cr.RoundCount,
		TeamCount:   cr.TeamCount,
		PairingMode: cr.PairingMode,
	}
	for _, round := range cr.Rounds {
		name := strings.TrimSpace(round.Name)
		kept := Round{Name: name}
		for _, pairing := range round.Matches {
			home := strings.TrimSpace(pairing.Home)
			away := strings.TrimSpace(pairing.Away)
			if home == "" || away == "" {
				continue
			}
			kept.Matches = append(kept.Matches, Pairing{Home: home, Away: away})
		}
		if name == "" || len(kept.Matches) == 0 {
			continue
		}
		clean.Rounds = append(clean.Rounds, kept)
	}
	if len(clean.Rounds) == 0 {
		return nil
	}
	return clean
}
