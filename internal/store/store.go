// internal/store/store.go
package store

import (
	"context"

	"github.com/ruafit/ruafit/internal/sports"
)

// KeyPrefix namespaces every persisted record.
const KeyPrefix = "ruafit:"

// Record names under the prefix.
const (
	KeySession       = "session"
	KeySettings      = "settings"
	KeyCachedData    = "cachedData"
	KeyTeamOverrides = "teamOverrides"
	KeyUserSports    = "userSports"
	KeyDraws         = "draws"
)

// Session tracks the most recent page visit.
type Session struct {
	LastVisited string `json:"lastVisited"`
	Page        string `json:"page"`
}

// CachedData marks the last successful content load.
type CachedData struct {
	LoadedAt int64  `json:"loadedAt"`
	Page     string `json:"page"`
}

// Store is the namespaced key-value repository holding all persisted
// app state. Reads are fail-soft: on any storage error they return the
// zero/fallback value. Writes are best-effort: failures are logged by
// the implementation and reported only through the boolean result, so
// callers can carry on with the write silently not taking effect.
type Store interface {
	GetSession(ctx context.Context) Session
	SetSession(ctx context.Context, session Session) bool

	GetSettings(ctx context.Context) map[string]string
	SetSettings(ctx context.Context, settings map[string]string) bool

	GetCachedData(ctx context.Context) CachedData
	SetCachedData(ctx context.Context, data CachedData) bool

	// GetTeamOverrides maps sport lookup keys to imported rosters.
	GetTeamOverrides(ctx context.Context) map[string][]string
	SetTeamOverrides(ctx context.Context, overrides map[string][]string) bool

	GetUserSports(ctx context.Context) []sports.Stub
	SetUserSports(ctx context.Context, stubs []sports.Stub) bool

	// GetDraws maps sport lookup keys to their persisted draw state.
	GetDraws(ctx context.Context) map[string]sports.Draw
	SetDraws(ctx context.Context, draws map[string]sports.Draw) bool
}
