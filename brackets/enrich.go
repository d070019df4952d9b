package brackets

import (
	"github.com/Dosada05/fantasy-playoffs/models"
)

// MatchupAmbiguity records a slot whose teams matched more than one ledger matchup.
// The first candidate in ledger order was used.
type MatchupAmbiguity struct {
	BracketType models.BracketType
	SlotID      int
	Week        int
	Candidates  []int
}

type EnrichResult struct {
	Entries     []models.BracketEntry
	Ambiguities []MatchupAmbiguity
}

// LedgerIndex groups non-bye ledger rows by week, keeping ledger order inside each week.
type LedgerIndex map[int][]models.MatchupLedgerRow

func NewLedgerIndex(leagueID string, ledger []models.MatchupLedgerRow) LedgerIndex {
	idx := make(LedgerIndex)
	for _, row := range ledger {
		if row.LeagueID != leagueID || row.IsBye() {
			continue
		}
		idx[row.Week] = append(idx[row.Week], row)
	}
	return idx
}

// EnrichSlots derives each slot's week and attaches the ledger matchup its teams played in.
// It has no side effects.
func EnrichSlots(leagueID string, bracketType models.BracketType, slots []models.BracketSlot, ledger LedgerIndex) EnrichResult {
	result := EnrichResult{Entries: make([]models.BracketEntry, 0, len(slots))}

	for _, slot := range slots {
		entry := entryFromSlot(leagueID, bracketType, slot)

		candidates := matchupCandidates(ledger[entry.Week], slot.Team1, slot.Team2)
		switch len(candidates) {
		case 0:
		case 1:
			entry.MatchupID = intPtr(candidates[0])
		default:
			entry.MatchupID = intPtr(candidates[0])
			result.Ambiguities = append(result.Ambiguities, MatchupAmbiguity{
				BracketType: bracketType,
				SlotID:      slot.SlotID,
				Week:        entry.Week,
				Candidates:  candidates,
			})
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// matchupCandidates returns the distinct matchup ids, in ledger order, of rows that
// involve either team.
func matchupCandidates(rows []models.MatchupLedgerRow, team1, team2 *int) []int {
	if team1 == nil && team2 == nil {
		return nil
	}
	var ids []int
	seen := make(map[int]struct{})
	for _, row := range rows {
		if row.IsBye() {
			continue
		}
		if !(team1 != nil && row.Involves(*team1)) && !(team2 != nil && row.Involves(*team2)) {
			continue
		}
		id := *row.MatchupID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func entryFromSlot(leagueID string, bracketType models.BracketType, slot models.BracketSlot) models.BracketEntry {
	entry := models.BracketEntry{
		LeagueID:    leagueID,
		BracketType: bracketType,
		SlotID:      slot.SlotID,
		Week:        models.WeekForRound(slot.Round),
		Round:       slot.Round,
		WinnerID:    slot.WinnerID,
		LoserID:     slot.LoserID,
		Place:       slot.Place,
		Team1:       slot.Team1,
		Team2:       slot.Team2,
	}
	entry.Team1FromWinnerOfSlot, entry.Team1FromLoserOfSlot = slot.Team1Source.Columns()
	entry.Team2FromWinnerOfSlot, entry.Team2FromLoserOfSlot = slot.Team2Source.Columns()
	return entry
}

func intPtr(v int) *int { return &v }
