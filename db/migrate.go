package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/fantasy-playoffs/repositories"
)

const bracketEntriesTable = `
CREATE TABLE IF NOT EXISTS bracket_entries (
	league_id                 TEXT    NOT NULL,
	bracket_type              TEXT    NOT NULL,
	slot_id                   INTEGER NOT NULL,
	matchup_id                INTEGER,
	week                      INTEGER NOT NULL,
	round                     INTEGER NOT NULL,
	winner_id                 INTEGER,
	loser_id                  INTEGER,
	place                     INTEGER,
	team1                     INTEGER,
	team2                     INTEGER,
	team1_from_winner_of_slot INTEGER,
	team1_from_loser_of_slot  INTEGER,
	team2_from_winner_of_slot INTEGER,
	team2_from_loser_of_slot  INTEGER,
	is_bye                    BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at                TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (league_id, bracket_type, slot_id),
	CONSTRAINT bracket_entries_bracket_type_check CHECK (bracket_type IN ('winners', 'losers')),
	CONSTRAINT bracket_entries_round_check CHECK (round >= 1),
	CONSTRAINT bracket_entries_week_check CHECK (week = round + 14),
	CONSTRAINT bracket_entries_team1_source_check CHECK (team1_from_winner_of_slot IS NULL OR team1_from_loser_of_slot IS NULL),
	CONSTRAINT bracket_entries_team2_source_check CHECK (team2_from_winner_of_slot IS NULL OR team2_from_loser_of_slot IS NULL)
)`

// The matchups table belongs to the stats sync; it is created here only so a fresh
// database can serve the bracket engine.
var matchupsTable = map[repositories.Dialect]string{
	repositories.DialectPostgres: `
CREATE TABLE IF NOT EXISTS matchups (
	id             BIGSERIAL PRIMARY KEY,
	league_id      TEXT    NOT NULL,
	week           INTEGER NOT NULL,
	matchup_id     INTEGER,
	home_roster_id INTEGER NOT NULL,
	away_roster_id INTEGER
)`,
	repositories.DialectSQLite: `
CREATE TABLE IF NOT EXISTS matchups (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	league_id      TEXT    NOT NULL,
	week           INTEGER NOT NULL,
	matchup_id     INTEGER,
	home_roster_id INTEGER NOT NULL,
	away_roster_id INTEGER
)`,
}

const matchupsLeagueWeekIndex = `CREATE INDEX IF NOT EXISTS matchups_league_week_idx ON matchups (league_id, week)`

// Migrate creates the tables the bracket engine reads and writes.
func Migrate(ctx context.Context, db *sql.DB, dialect repositories.Dialect) error {
	statements := []string{bracketEntriesTable, matchupsTable[dialect], matchupsLeagueWeekIndex}
	for _, stmt := range statements {
		if stmt == "" {
			return fmt.Errorf("no schema for dialect %q", dialect)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
