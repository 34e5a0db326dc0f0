// internal/manager/manager.go
package manager

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/draws"
	"github.com/ruafit/ruafit/internal/roster"
	"github.com/ruafit/ruafit/internal/sports"
	"github.com/ruafit/ruafit/internal/store"
)

// Custom bracket depth accepted for preview requests.
const (
	MinRoundCount = 1
	MaxRoundCount = 6
)

// Result reports the outcome of a manager operation. Status is the
// single human-readable message surfaced to the user; Changed reports
// whether persisted state was mutated.
type Result struct {
	Status  string
	Changed bool
}

// Manager orchestrates user actions over the sport registry, draw
// generator and store. It holds no authoritative state between
// operations: every operation re-reads the store before mutating.
// The only in-memory state is the per-sport preview cache, which is
// deliberately lost on restart. Operations are serialized by a mutex to
// reproduce run-to-completion event dispatch.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	builtIns []sports.Sport
	previews map[string]*sports.CustomRounds
	rng      *rand.Rand
}

// New builds a Manager over the given store and built-in sport list.
// A nil rng gets a time-seeded source; tests inject a fixed seed.
func New(s store.Store, builtIns []sports.Sport, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Manager{
		store:    s,
		builtIns: builtIns,
		previews: make(map[string]*sports.CustomRounds),
		rng:      rng,
	}
}

// Sports returns the current merged registry: built-ins first in source
// order, then non-colliding user sports.
func (m *Manager) Sports(ctx context.Context) []sports.Sport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mergedLocked(ctx)
}

// Preview returns the pending in-memory custom rounds for a sport, if any.
func (m *Manager) Preview(key string) *sports.CustomRounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.previews[key]
}

// ResolveSport picks the sport an action applies to. A typed name that
// does not collide with an existing key registers a new user sport;
// a colliding typed name resolves to the existing sport. With neither a
// typed name nor a selection the operation is a no-op with guidance.
func (m *Manager) ResolveSport(ctx context.Context, selectedKey, typedName string) (string, Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	typedName = strings.TrimSpace(typedName)
	if typedName != "" {
		key := sports.LookupKey(typedName)
		if existing := m.findLocked(ctx, key); existing != nil {
			return key, Result{Status: fmt.Sprintf("Using existing sport %q.", existing.Code)}
		}
		stubs := m.store.GetUserSports(ctx)
		stubs = append(stubs, sports.Stub{Code: typedName})
		m.store.SetUserSports(ctx, stubs)
		return key, Result{Status: fmt.Sprintf("Added new sport %q.", typedName), Changed: true}
	}

	selectedKey = sports.LookupKey(selectedKey)
	if selectedKey != "" {
		if existing := m.findLocked(ctx, selectedKey); existing != nil {
			return selectedKey, Result{}
		}
		return "", Result{Status: "The selected sport no longer exists. Pick another or type a new name."}
	}

	return "", Result{Status: "Select a sport or type a new sport name first."}
}

// ImportTeams replaces or appends the roster for one sport from
// newline-separated input. A roster change invalidates any stored draw
// for that sport; nothing is regenerated automatically.
func (m *Manager) ImportTeams(ctx context.Context, key, input string, appendMode bool) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return Result{Status: "Unknown sport. Select or create it first."}
	}

	incoming := roster.NormalizeStrings(strings.Split(input, "\n"))
	if len(incoming) == 0 {
		return Result{Status: "No team names found in the input."}
	}

	teams := incoming
	if appendMode {
		teams = roster.NormalizeStrings(append(append([]string{}, sport.Teams...), incoming...))
	}

	m.writeTeamsLocked(ctx, key, teams)
	verb := "Imported"
	if appendMode {
		verb = "Appended"
	}
	return Result{
		Status:  fmt.Sprintf("%s %d teams for %q. Existing draws were cleared.", verb, len(teams), sport.Code),
		Changed: true,
	}
}

// ImportMany applies a bulk import (structured file or freeform paste)
// to several sports at once. Sports named by codes with no existing key
// are registered as user sports. Every touched roster invalidates that
// sport's stored draw.
func (m *Manager) ImportMany(ctx context.Context, byCode map[string][]string, appendMode bool) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied := 0
	created := 0
	for code, teams := range byCode {
		code = strings.TrimSpace(code)
		key := sports.LookupKey(code)
		if key == "" || len(teams) == 0 {
			continue
		}
		sport := m.findLocked(ctx, key)
		if sport == nil {
			stubs := m.store.GetUserSports(ctx)
			stubs = append(stubs, sports.Stub{Code: code})
			m.store.SetUserSports(ctx, stubs)
			created++
			sport = &sports.Sport{Code: code}
		}

		incoming := roster.NormalizeStrings(teams)
		if appendMode {
			incoming = roster.NormalizeStrings(append(append([]string{}, sport.Teams...), incoming...))
		}
		m.writeTeamsLocked(ctx, key, incoming)
		applied++
	}

	if applied == 0 {
		return Result{Status: "Nothing to import."}
	}
	status := fmt.Sprintf("Imported teams for %d sports. Existing draws were cleared.", applied)
	if created > 0 {
		status = fmt.Sprintf("Imported teams for %d sports (%d new). Existing draws were cleared.", applied, created)
	}
	return Result{Status: status, Changed: true}
}

// AddTeam adds a single team to a sport's roster, rejecting
// case-insensitive duplicates. The sport's stored draw is invalidated.
func (m *Manager) AddTeam(ctx context.Context, key, name string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return Result{Status: "Unknown sport. Select or create it first."}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Result{Status: "Team name is required."}
	}
	if roster.Contains(sport.Teams, name) {
		return Result{Status: fmt.Sprintf("Team %q is already on the %q roster.", name, sport.Code)}
	}

	m.writeTeamsLocked(ctx, key, append(append([]string{}, sport.Teams...), name))
	return Result{
		Status:  fmt.Sprintf("Added %q to %q. Existing draws were cleared.", name, sport.Code),
		Changed: true,
	}
}

// ClearTeams removes one sport's imported roster. The roster change
// also invalidates that sport's stored draw.
func (m *Manager) ClearTeams(ctx context.Context, key string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return Result{Status: "Unknown sport."}
	}

	overrides := m.store.GetTeamOverrides(ctx)
	delete(overrides, key)
	m.store.SetTeamOverrides(ctx, overrides)

	stored := m.store.GetDraws(ctx)
	delete(stored, key)
	m.store.SetDraws(ctx, stored)

	return Result{Status: fmt.Sprintf("Cleared teams for %q.", sport.Code), Changed: true}
}

// ClearDraw removes one sport's stored draw, leaving its roster intact.
func (m *Manager) ClearDraw(ctx context.Context, key string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return Result{Status: "Unknown sport."}
	}

	stored := m.store.GetDraws(ctx)
	if _, ok := stored[key]; !ok {
		return Result{Status: fmt.Sprintf("No draw stored for %q.", sport.Code)}
	}
	delete(stored, key)
	m.store.SetDraws(ctx, stored)
	return Result{Status: fmt.Sprintf("Cleared draw for %q.", sport.Code), Changed: true}
}

// ClearAll wipes every persisted roster, user sport and draw, and all
// in-memory previews. Being irreversible, it requires confirmation.
func (m *Manager) ClearAll(ctx context.Context, confirmed bool) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !confirmed {
		return Result{Status: "Clearing everything is irreversible. Confirm to proceed."}
	}

	m.store.SetTeamOverrides(ctx, map[string][]string{})
	m.store.SetUserSports(ctx, []sports.Stub{})
	m.store.SetDraws(ctx, map[string]sports.Draw{})
	m.previews = make(map[string]*sports.CustomRounds)

	return Result{Status: "Cleared all teams, sports and draws.", Changed: true}
}

// GeneratePoolPlay builds a round-robin schedule for a sport,
// overwriting any stored pool matches. Saved custom rounds for the
// sport are cleared too, since they were built on the old pool, along
// with any pending preview.
func (m *Manager) GeneratePoolPlay(ctx context.Context, key string, shuffle bool) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return Result{Status: "Unknown sport."}
	}
	if len(sport.Teams) < 2 {
		return Result{Status: fmt.Sprintf("At least 2 teams are required to generate pool play for %q.", sport.Code)}
	}

	teams := sport.Teams
	if shuffle {
		teams = draws.Shuffle(teams, m.rng)
	}
	matches := draws.GenerateRoundRobin(teams)

	stored := m.store.GetDraws(ctx)
	stored[key] = sports.Draw{PoolMatches: matches}
	m.store.SetDraws(ctx, stored)
	delete(m.previews, key)

	rounds, perRound, total := draws.Summary(len(teams))
	return Result{
		Status: fmt.Sprintf("Generated pool play for %q: %d rounds, %d matches per round, %d matches total.",
			sport.Code, rounds, perRound, total),
		Changed: true,
	}
}

// PreviewCustomRounds builds elimination rounds for a sport and holds
// them in memory only. Pool play must already exist, the round count
// must be between MinRoundCount and MaxRoundCount, and the roster must
// cover 2^roundCount teams.
func (m *Manager) PreviewCustomRounds(ctx context.Context, key string, roundCount int, mode draws.PairingMode) (*sports.CustomRounds, Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return nil, Result{Status: "Unknown sport."}
	}

	stored := m.store.GetDraws(ctx)
	if len(stored[key].PoolMatches) == 0 {
		return nil, Result{Status: fmt.Sprintf("Generate pool play for %q before building custom rounds.", sport.Code)}
	}
	if roundCount < MinRoundCount || roundCount > MaxRoundCount {
		return nil, Result{Status: fmt.Sprintf("Round count must be between %d and %d.", MinRoundCount, MaxRoundCount)}
	}

	need := 1 << roundCount
	if len(sport.Teams) < need {
		return nil, Result{Status: fmt.Sprintf("%d rounds need at least %d teams; %q has %d.",
			roundCount, need, sport.Code, len(sport.Teams))}
	}

	preview, err := draws.BuildCustomRounds(sport.Teams, roundCount, mode, m.rng)
	if err != nil {
		// Guarded above; kept as a belt for future validations.
		return nil, Result{Status: err.Error()}
	}

	m.previews[key] = preview
	return preview, Result{Status: fmt.Sprintf("Preview ready for %q. Save it to keep it.", sport.Code)}
}

// SaveCustomRounds promotes a pending preview to the sport's persisted
// custom rounds, preserving its pool matches. Requires confirmation.
func (m *Manager) SaveCustomRounds(ctx context.Context, key string, confirmed bool) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	sport := m.findLocked(ctx, key)
	if sport == nil {
		return Result{Status: "Unknown sport."}
	}
	preview, ok := m.previews[key]
	if !ok {
		return Result{Status: fmt.Sprintf("Nothing previewed for %q yet.", sport.Code)}
	}
	if !confirmed {
		return Result{Status: "Saving will overwrite any stored custom rounds. Confirm to proceed."}
	}

	stored := m.store.GetDraws(ctx)
	draw := stored[key]
	draw.CustomRounds = preview
	stored[key] = draw
	m.store.SetDraws(ctx, stored)
	delete(m.previews, key)

	return Result{Status: fmt.Sprintf("Saved custom rounds for %q.", sport.Code), Changed: true}
}

func (m *Manager) mergedLocked(ctx context.Context) []sports.Sport {
	return sports.Merge(
		m.builtIns,
		m.store.GetUserSports(ctx),
		m.store.GetTeamOverrides(ctx),
		m.store.GetDraws(ctx),
	)
}

func (m *Manager) findLocked(ctx context.Context, key string) *sports.Sport {
	for _, sport := range m.mergedLocked(ctx) {
		if sports.LookupKey(sport.Code) == key {
			return &sport
		}
	}
	return nil
}

// writeTeamsLocked persists a roster override and invalidates the
// sport's stored draw. Saved custom rounds referencing a roster that no
// longer covers them are not re-validated elsewhere; that mirrors the
// long-standing behavior of the draw lifecycle.
func (m *Manager) writeTeamsLocked(ctx context.Context, key string, teams []string) {
	overrides := m.store.GetTeamOverrides(ctx)
	overrides[key] = teams
	if !m.store.SetTeamOverrides(ctx, overrides) {
		log.Warn().Str("sport", key).Msg("Roster write did not persist")
	}

	stored := m.store.GetDraws(ctx)
	if _, ok := stored[key]; ok {
		delete(stored, key)
		m.store.SetDraws(ctx, stored)
	}
}
