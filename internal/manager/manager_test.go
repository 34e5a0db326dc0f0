// internal/manager/manager_test.go
package manager

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/ruafit/ruafit/internal/draws"
	"github.com/ruafit/ruafit/internal/sports"
	"github.com/ruafit/ruafit/internal/store"
)

var builtIns = []sports.Sport{
	{Code: "Netball", Location: "Court 1"},
	{Code: "Touch", Location: "Field A"},
}

func newManager() (*Manager, *store.Memory) {
	s := store.NewMemory()
	return New(s, builtIns, rand.New(rand.NewSource(1))), s
}

func seedTeams(t *testing.T, m *Manager, key string, teams ...string) {
	t.Helper()
	ctx := context.Background()
	result := m.ImportMany(ctx, map[string][]string{key: teams}, false)
	if !result.Changed {
		t.Fatalf("seeding teams failed: %s", result.Status)
	}
}

func TestResolveSportRegistersNewUserSport(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()

	key, result := m.ResolveSport(ctx, "", "Ki-o-Rahi")
	if key != "ki-o-rahi" || !result.Changed {
		t.Fatalf("ResolveSport = %q, %+v", key, result)
	}
	stubs := s.GetUserSports(ctx)
	if len(stubs) != 1 || stubs[0].Code != "Ki-o-Rahi" {
		t.Fatalf("user sports = %+v", stubs)
	}
}

func TestResolveSportTypedNameCollidesWithBuiltIn(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()

	key, result := m.ResolveSport(ctx, "", "netball")
	if key != "netball" || result.Changed {
		t.Fatalf("ResolveSport = %q, %+v, want existing sport resolution", key, result)
	}
	if len(s.GetUserSports(ctx)) != 0 {
		t.Fatalf("colliding typed name must not create a user sport")
	}
}

func TestResolveSportNoSelectionNoName(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()

	key, result := m.ResolveSport(ctx, "", "  ")
	if key != "" || result.Changed || result.Status == "" {
		t.Fatalf("ResolveSport = %q, %+v, want guidance no-op", key, result)
	}
}

func TestImportTeamsReplaceAndNormalize(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()

	result := m.ImportTeams(ctx, "netball", " Kahu \nkahu\n\nTui\n", false)
	if !result.Changed {
		t.Fatalf("ImportTeams: %s", result.Status)
	}
	want := map[string][]string{"netball": {"Kahu", "Tui"}}
	if got := s.GetTeamOverrides(ctx); !reflect.DeepEqual(got, want) {
		t.Fatalf("overrides = %v, want %v", got, want)
	}
}

func TestImportTeamsEmptyInputRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()

	result := m.ImportTeams(ctx, "netball", "  \n \n", false)
	if result.Changed || result.Status == "" {
		t.Fatalf("empty import should be rejected with a message, got %+v", result)
	}
}

func TestImportTeamsAppendMode(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui")

	result := m.ImportTeams(ctx, "netball", "tui\nWeka", true)
	if !result.Changed {
		t.Fatalf("ImportTeams append: %s", result.Status)
	}
	want := []string{"Kahu", "Tui", "Weka"}
	if got := s.GetTeamOverrides(ctx)["netball"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("teams = %v, want %v", got, want)
	}
}

func TestImportInvalidatesStoredDraws(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")

	if result := m.GeneratePoolPlay(ctx, "netball", false); !result.Changed {
		t.Fatalf("GeneratePoolPlay: %s", result.Status)
	}
	if _, result := m.PreviewCustomRounds(ctx, "netball", 1, draws.PairSequential); result.Status == "" {
		t.Fatalf("preview failed silently")
	}
	if result := m.SaveCustomRounds(ctx, "netball", true); !result.Changed {
		t.Fatalf("SaveCustomRounds: %s", result.Status)
	}
	if s.GetDraws(ctx)["netball"].CustomRounds == nil {
		t.Fatalf("custom rounds not persisted")
	}

	// Re-importing the roster must clear both pool matches and custom rounds.
	if result := m.ImportTeams(ctx, "netball", "Kahu\nTui\nWeka", false); !result.Changed {
		t.Fatalf("re-import: %s", result.Status)
	}
	if _, ok := s.GetDraws(ctx)["netball"]; ok {
		t.Fatalf("stored draw survived a roster change")
	}
}

func TestAddTeamRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	seedTeams(t, m, "Netball", "Kahu")

	result := m.AddTeam(ctx, "netball", " kahu ")
	if result.Changed {
		t.Fatalf("duplicate add must be a no-op, got %+v", result)
	}
}

func TestAddTeamInvalidatesDraw(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui")

	if result := m.GeneratePoolPlay(ctx, "netball", false); !result.Changed {
		t.Fatalf("GeneratePoolPlay: %s", result.Status)
	}
	if result := m.AddTeam(ctx, "netball", "Weka"); !result.Changed {
		t.Fatalf("AddTeam: %s", result.Status)
	}
	if _, ok := s.GetDraws(ctx)["netball"]; ok {
		t.Fatalf("stored draw survived AddTeam")
	}
}

func TestGeneratePoolPlayRequiresTwoTeams(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	seedTeams(t, m, "Netball", "Kahu")

	result := m.GeneratePoolPlay(ctx, "netball", false)
	if result.Changed {
		t.Fatalf("pool play with 1 team must fail, got %+v", result)
	}
}

func TestGeneratePoolPlayOverwritesAndClearsCustomRounds(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")

	m.GeneratePoolPlay(ctx, "netball", false)
	m.PreviewCustomRounds(ctx, "netball", 1, draws.PairSequential)
	m.SaveCustomRounds(ctx, "netball", true)

	if result := m.GeneratePoolPlay(ctx, "netball", false); !result.Changed {
		t.Fatalf("regenerate: %s", result.Status)
	}
	draw := s.GetDraws(ctx)["netball"]
	if draw.CustomRounds != nil {
		t.Fatalf("regeneration must clear saved custom rounds")
	}
	if len(draw.PoolMatches) != 6 {
		t.Fatalf("pool matches = %d, want 6", len(draw.PoolMatches))
	}
}

func TestGeneratePoolPlayDiscardsPendingPreview(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")

	m.GeneratePoolPlay(ctx, "netball", false)
	m.PreviewCustomRounds(ctx, "netball", 2, draws.PairSequential)
	if m.Preview("netball") == nil {
		t.Fatalf("preview missing after PreviewCustomRounds")
	}

	m.GeneratePoolPlay(ctx, "netball", true)
	if m.Preview("netball") != nil {
		t.Fatalf("regeneration must discard the pending preview")
	}
}

func TestPreviewRequiresPoolPlay(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")

	preview, result := m.PreviewCustomRounds(ctx, "netball", 2, draws.PairSequential)
	if preview != nil || result.Changed {
		t.Fatalf("preview before pool play must fail, got %+v", result)
	}
}

func TestPreviewValidatesRoundCount(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")
	m.GeneratePoolPlay(ctx, "netball", false)

	for _, rc := range []int{0, 7} {
		if preview, _ := m.PreviewCustomRounds(ctx, "netball", rc, draws.PairSequential); preview != nil {
			t.Fatalf("round count %d accepted", rc)
		}
	}
}

func TestPreviewValidatesRosterSize(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka")
	m.GeneratePoolPlay(ctx, "netball", false)

	preview, result := m.PreviewCustomRounds(ctx, "netball", 2, draws.PairSequential)
	if preview != nil || result.Status == "" {
		t.Fatalf("3 teams with 2 rounds must fail with a message, got %+v", result)
	}
}

func TestPreviewIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")
	m.GeneratePoolPlay(ctx, "netball", false)

	if preview, result := m.PreviewCustomRounds(ctx, "netball", 2, draws.PairSequential); preview == nil {
		t.Fatalf("preview failed: %s", result.Status)
	}
	if s.GetDraws(ctx)["netball"].CustomRounds != nil {
		t.Fatalf("preview leaked into the store")
	}
}

func TestSaveCustomRoundsRequiresPreviewAndConfirmation(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")
	m.GeneratePoolPlay(ctx, "netball", false)

	if result := m.SaveCustomRounds(ctx, "netball", true); result.Changed {
		t.Fatalf("save without preview must fail")
	}

	m.PreviewCustomRounds(ctx, "netball", 2, draws.PairSequential)
	if result := m.SaveCustomRounds(ctx, "netball", false); result.Changed {
		t.Fatalf("save without confirmation must fail")
	}

	if result := m.SaveCustomRounds(ctx, "netball", true); !result.Changed {
		t.Fatalf("confirmed save failed: %s", result.Status)
	}
	draw := s.GetDraws(ctx)["netball"]
	if draw.CustomRounds == nil || len(draw.PoolMatches) == 0 {
		t.Fatalf("save must preserve pool matches alongside custom rounds, got %+v", draw)
	}
}

func TestClearTeamsAlsoClearsDraw(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui")
	m.GeneratePoolPlay(ctx, "netball", false)

	if result := m.ClearTeams(ctx, "netball"); !result.Changed {
		t.Fatalf("ClearTeams: %s", result.Status)
	}
	if _, ok := s.GetTeamOverrides(ctx)["netball"]; ok {
		t.Fatalf("override survived ClearTeams")
	}
	if _, ok := s.GetDraws(ctx)["netball"]; ok {
		t.Fatalf("draw survived ClearTeams")
	}
}

func TestClearDrawLeavesTeams(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui")
	m.GeneratePoolPlay(ctx, "netball", false)

	if result := m.ClearDraw(ctx, "netball"); !result.Changed {
		t.Fatalf("ClearDraw: %s", result.Status)
	}
	if _, ok := s.GetDraws(ctx)["netball"]; ok {
		t.Fatalf("draw survived ClearDraw")
	}
	if got := s.GetTeamOverrides(ctx)["netball"]; len(got) != 2 {
		t.Fatalf("teams = %v, want untouched roster", got)
	}
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	m, s := newManager()
	seedTeams(t, m, "Netball", "Kahu", "Tui", "Weka", "Kea")
	m.GeneratePoolPlay(ctx, "netball", false)
	m.PreviewCustomRounds(ctx, "netball", 1, draws.PairSequential)

	if result := m.ClearAll(ctx, false); result.Changed {
		t.Fatalf("unconfirmed ClearAll must be a no-op")
	}
	if m.Preview("netball") == nil {
		t.Fatalf("unconfirmed ClearAll must keep previews")
	}

	if result := m.ClearAll(ctx, true); !result.Changed {
		t.Fatalf("confirmed ClearAll failed")
	}
	if len(s.GetTeamOverrides(ctx)) != 0 || len(s.GetDraws(ctx)) != 0 || len(s.GetUserSports(ctx)) != 0 {
		t.Fatalf("persisted state survived ClearAll")
	}
	if m.Preview("netball") != nil {
		t.Fatalf("previews survived ClearAll")
	}
}

func TestSportsMergedViewOrdering(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	m.ResolveSport(ctx, "", "Waka Ama")

	var codes []string
	for _, sport := range m.Sports(ctx) {
		codes = append(codes, sport.Code)
	}
	want := []string{"Netball", "Touch", "Waka Ama"}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("sports = %v, want %v", codes, want)
	}
}

func TestOperationsSurviveFailingStoreWrites(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	s.FailWrites = true
	m := New(s, builtIns, rand.New(rand.NewSource(1)))

	// Writes are swallowed: the operation reports success but the
	// store keeps its old (empty) state.
	result := m.ImportTeams(ctx, "netball", "Kahu\nTui", false)
	if result.Status == "" {
		t.Fatalf("expected a status message")
	}
	if got := s.GetTeamOverrides(ctx); len(got) != 0 {
		t.Fatalf("failing store accepted a write: %v", got)
	}
}
