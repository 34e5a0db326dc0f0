// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/sports"
)

// SQLite persists records as JSON values in the kv table created by the
// embedded migrations. It satisfies Store's fail-soft contract: read
// errors yield the fallback value, write errors are logged and reported
// as false.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an already-opened, migrated database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) read(ctx context.Context, name string, dst any) bool {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE name = ?`, KeyPrefix+name).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("record", name).Msg("Store read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(value), dst); err != nil {
		log.Warn().Err(err).Str("record", name).Msg("Store record is not valid JSON")
		return false
	}
	return true
}

func (s *SQLite) write(ctx context.Context, name string, value any) bool {
	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("record", name).Msg("Store encode failed")
		return false
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		KeyPrefix+name, string(encoded))
	if err != nil {
		log.Warn().Err(err).Str("record", name).Msg("Store write failed")
		return false
	}
	return true
}

func (s *SQLite) GetSession(ctx context.Context) Session {
	var session Session
	s.read(ctx, KeySession, &session)
	return session
}

func (s *SQLite) SetSession(ctx context.Context, session Session) bool {
	return s.write(ctx, KeySession, session)
}

func (s *SQLite) GetSettings(ctx context.Context) map[string]string {
	settings := map[string]string{}
	s.read(ctx, KeySettings, &settings)
	if settings == nil {
		settings = map[string]string{}
	}
	return settings
}

func (s *SQLite) SetSettings(ctx context.Context, settings map[string]string) bool {
	return s.write(ctx, KeySettings, settings)
}

func (s *SQLite) GetCachedData(ctx context.Context) CachedData {
	var data CachedData
	s.read(ctx, KeyCachedData, &data)
	return data
}

func (s *SQLite) SetCachedData(ctx context.Context, data CachedData) bool {
	return s.write(ctx, KeyCachedData, data)
}

func (s *SQLite) GetTeamOverrides(ctx context.Context) map[string][]string {
	overrides := map[string][]string{}
	s.read(ctx, KeyTeamOverrides, &overrides)
	if overrides == nil {
		overrides = map[string][]string{}
	}
	return overrides
}

func (s *SQLite) SetTeamOverrides(ctx context.Context, overrides map[string][]string) bool {
	return s.write(ctx, KeyTeamOverrides, overrides)
}

func (s *SQLite) GetUserSports(ctx context.Context) []sports.Stub {
	var stubs []sports.Stub
	s.read(ctx, KeyUserSports, &stubs)
	return stubs
}

func (s *SQLite) SetUserSports(ctx context.Context, stubs []sports.Stub) bool {
	if stubs == nil {
		stubs = []sports.Stub{}
	}
	return s.write(ctx, KeyUserSports, stubs)
}

func (s *SQLite) GetDraws(ctx context.Context) map[string]sports.Draw {
	draws := map[string]sports.Draw{}
	s.read(ctx, KeyDraws, &draws)
	if draws == nil {
		draws = map[string]sports.Draw{}
	}
	return draws
}

func (s *SQLite) SetDraws(ctx context.Context, draws map[string]sports.Draw) bool {
	return s.write(ctx, KeyDraws, draws)
}
