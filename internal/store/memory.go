// internal/store/memory.go
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ruafit/ruafit/internal/sports"
)

// Memory is an in-process Store used by tests and as a last-resort
// fallback when no database is available. Values round-trip through
// JSON so stored state is isolated from caller mutation, matching the
// SQLite implementation.
type Memory struct {
	mu      sync.RWMutex
	records map[string]string

	// FailWrites makes every Set report false, for exercising the
	// swallowed-write error path.
	FailWrites bool
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]string)}
}

func (m *Memory) read(name string, dst any) bool {
	m.mu.RLock()
	value, ok := m.records[KeyPrefix+name]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(value), dst) == nil
}

func (m *Memory) write(name string, value any) bool {
	if m.FailWrites {
		return false
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return false
	}
	m.mu.Lock()
	m.records[KeyPrefix+name] = string(encoded)
	m.mu.Unlock()
	return true
}

func (m *Memory) GetSession(ctx context.Context) Session {
	var session Session
	m.read(KeySession, &session)
	return session
}

func (m *Memory) SetSession(ctx context.Context, session Session) bool {
	return m.write(KeySession, session)
}

func (m *Memory) GetSettings(ctx context.Context) map[string]string {
	settings := map[string]string{}
	m.read(KeySettings, &settings)
	if settings == nil {
		settings = map[string]string{}
	}
	return settings
}

func (m *Memory) SetSettings(ctx context.Context, settings map[string]string) bool {
	return m.write(KeySettings, settings)
}

func (m *Memory) GetCachedData(ctx context.Context) CachedData {
	var data CachedData
	m.read(KeyCachedData, &data)
	return data
}

func (m *Memory) SetCachedData(ctx context.Context, data CachedData) bool {
	return m.write(KeyCachedData, data)
}

func (m *Memory) GetTeamOverrides(ctx context.Context) map[string][]string {
	overrides := map[string][]string{}
	m.read(KeyTeamOverrides, &overrides)
	if overrides == nil {
		overrides = map[string][]string{}
	}
	return overrides
}

func (m *Memory) SetTeamOverrides(ctx context.Context, overrides map[string][]string) bool {
	return m.write(KeyTeamOverrides, overrides)
}

func (m *Memory) GetUserSports(ctx context.Context) []sports.Stub {
	var stubs []sports.Stub
	m.read(KeyUserSports, &stubs)
	return stubs
}

func (m *Memory) SetUserSports(ctx context.Context, stubs []sports.Stub) bool {
	if stubs == nil {
		stubs = []sports.Stub{}
	}
	return m.write(KeyUserSports, stubs)
}

func (m *Memory) GetDraws(ctx context.Context) map[string]sports.Draw {
	draws := map[string]sports.Draw{}
	m.read(KeyDraws, &draws)
	if draws == nil {
		draws = map[string]sports.Draw{}
	}
	return draws
}

func (m *Memory) SetDraws(ctx context.Context, draws map[string]sports.Draw) bool {
	return m.write(KeyDraws, draws)
}
