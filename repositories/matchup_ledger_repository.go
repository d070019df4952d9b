package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/fantasy-playoffs/models"
)

// MatchupLedgerRepository reads the weekly pairings written by the stats sync.
// The bracket engine never writes to this table.
type MatchupLedgerRepository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]models.MatchupLedgerRow, error)
}

type sqlMatchupLedgerRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewMatchupLedgerRepository(db *sql.DB, dialect Dialect) MatchupLedgerRepository {
	return &sqlMatchupLedgerRepository{db: db, dialect: dialect}
}

// ListByLeague returns every ledger row of a league ordered by week then insertion id,
// which is the order ambiguous bracket cross-references are resolved in.
func (r *sqlMatchupLedgerRepository) ListByLeague(ctx context.Context, leagueID string) ([]models.MatchupLedgerRow, error) {
	query := r.dialect.Rebind(`
		SELECT id, league_id, week, matchup_id, home_roster_id, away_roster_id
		FROM matchups
		WHERE league_id = ?
		ORDER BY week ASC, id ASC`)

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchup ledger for league %s: %w", leagueID, err)
	}
	defer rows.Close()

	ledger := make([]models.MatchupLedgerRow, 0)
	for rows.Next() {
		var row models.MatchupLedgerRow
		if scanErr := rows.Scan(
			&row.ID,
			&row.LeagueID,
			&row.Week,
			&row.MatchupID,
			&row.HomeRosterID,
			&row.AwayRosterID,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan matchup ledger row: %w", scanErr)
		}
		ledger = append(ledger, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during matchup ledger rows iteration: %w", err)
	}
	return ledger, nil
}
