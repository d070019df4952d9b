package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/fantasy-playoffs/models"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrBracketEntryInvalid = errors.New("bracket entry violates a table constraint")
)

type BracketEntryRepository interface {
	// Upsert writes entry keyed by (league_id, bracket_type, slot_id), overwriting every
	// mutable column of an existing row.
	Upsert(ctx context.Context, exec SQLExecutor, entry *models.BracketEntry) error
	ListByLeague(ctx context.Context, leagueID string) ([]models.BracketEntry, error)
}

type sqlBracketEntryRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewBracketEntryRepository(db *sql.DB, dialect Dialect) BracketEntryRepository {
	return &sqlBracketEntryRepository{db: db, dialect: dialect, now: time.Now}
}

func (r *sqlBracketEntryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const upsertBracketEntryQuery = `
	INSERT INTO bracket_entries
		(league_id, bracket_type, slot_id, matchup_id, week, round, winner_id, loser_id, place,
		 team1, team2, team1_from_winner_of_slot, team1_from_loser_of_slot,
		 team2_from_winner_of_slot, team2_from_loser_of_slot, is_bye, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (league_id, bracket_type, slot_id) DO UPDATE SET
		matchup_id = excluded.matchup_id,
		week = excluded.week,
		round = excluded.round,
		winner_id = excluded.winner_id,
		loser_id = excluded.loser_id,
		place = excluded.place,
		team1 = excluded.team1,
		team2 = excluded.team2,
		team1_from_winner_of_slot = excluded.team1_from_winner_of_slot,
		team1_from_loser_of_slot = excluded.team1_from_loser_of_slot,
		team2_from_winner_of_slot = excluded.team2_from_winner_of_slot,
		team2_from_loser_of_slot = excluded.team2_from_loser_of_slot,
		is_bye = excluded.is_bye,
		updated_at = excluded.updated_at`

func (r *sqlBracketEntryRepository) Upsert(ctx context.Context, exec SQLExecutor, entry *models.BracketEntry) error {
	entry.UpdatedAt = r.now().UTC()

	_, err := r.getExecutor(exec).ExecContext(ctx, r.dialect.Rebind(upsertBracketEntryQuery),
		entry.LeagueID,
		string(entry.BracketType),
		entry.SlotID,
		entry.MatchupID,
		entry.Week,
		entry.Round,
		entry.WinnerID,
		entry.LoserID,
		entry.Place,
		entry.Team1,
		entry.Team2,
		entry.Team1FromWinnerOfSlot,
		entry.Team1FromLoserOfSlot,
		entry.Team2FromWinnerOfSlot,
		entry.Team2FromLoserOfSlot,
		entry.IsBye,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s slot %d for league %s: %w",
			entry.BracketType, entry.SlotID, entry.LeagueID, r.handleBracketEntryError(err))
	}
	return nil
}

func (r *sqlBracketEntryRepository) ListByLeague(ctx context.Context, leagueID string) ([]models.BracketEntry, error) {
	query := r.dialect.Rebind(`
		SELECT league_id, bracket_type, slot_id, matchup_id, week, round, winner_id, loser_id, place,
		       team1, team2, team1_from_winner_of_slot, team1_from_loser_of_slot,
		       team2_from_winner_of_slot, team2_from_loser_of_slot, is_bye
		FROM bracket_entries
		WHERE league_id = ?
		ORDER BY bracket_type ASC, round ASC, slot_id ASC`)

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket entries for league %s: %w", leagueID, err)
	}
	defer rows.Close()

	entries := make([]models.BracketEntry, 0)
	for rows.Next() {
		var e models.BracketEntry
		if scanErr := rows.Scan(
			&e.LeagueID,
			&e.BracketType,
			&e.SlotID,
			&e.MatchupID,
			&e.Week,
			&e.Round,
			&e.WinnerID,
			&e.LoserID,
			&e.Place,
			&e.Team1,
			&e.Team2,
			&e.Team1FromWinnerOfSlot,
			&e.Team1FromLoserOfSlot,
			&e.Team2FromWinnerOfSlot,
			&e.Team2FromLoserOfSlot,
			&e.IsBye,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan bracket entry row: %w", scanErr)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bracket entry rows iteration: %w", err)
	}
	return entries, nil
}

func (r *sqlBracketEntryRepository) handleBracketEntryError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 23514: check_violation
		if pqErr.Code == "23514" {
			return fmt.Errorf("%w (%s): %v", ErrBracketEntryInvalid, pqErr.Constraint, err)
		}
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %v", ErrBracketEntryInvalid, err)
	}
	return err
}
