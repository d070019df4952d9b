package brackets

import (
	"sort"

	"github.com/Dosada05/fantasy-playoffs/models"
)

// ByeSlotID is the synthetic slot id of a roster's round-1 bye. It is negative so it can
// never collide with an upstream slot, and derived from the roster so re-syncs hit the
// same row.
func ByeSlotID(rosterID int) int {
	return -rosterID
}

// DeriveByes returns a round-1 bye entry for every roster seeded straight into round 2:
// present on a round-2 side with no advancement reference and absent from round 1.
// Rounds after 2 are filled from resolved lower rounds and need no synthesis.
func DeriveByes(entries []models.BracketEntry) []models.BracketEntry {
	return deriveByes(entries, roundOneRosters(entries))
}

func roundOneRosters(entries []models.BracketEntry) map[int]struct{} {
	seen := make(map[int]struct{})
	for _, e := range entries {
		if e.Round != 1 {
			continue
		}
		for _, team := range []*int{e.Team1, e.Team2} {
			if team != nil {
				seen[*team] = struct{}{}
			}
		}
	}
	return seen
}

// deriveByes adds every roster it synthesizes to seen, so a roster that shows up on
// several round-2 sides gets one bye.
func deriveByes(entries []models.BracketEntry, seen map[int]struct{}) []models.BracketEntry {
	roundTwo := make([]models.BracketEntry, 0)
	for _, e := range entries {
		if e.Round == 2 {
			roundTwo = append(roundTwo, e)
		}
	}
	sort.Slice(roundTwo, func(i, j int) bool { return roundTwo[i].SlotID < roundTwo[j].SlotID })

	var byes []models.BracketEntry
	for _, e := range roundTwo {
		sides := []struct {
			team       *int
			hasLineage bool
		}{
			{e.Team1, e.Team1FromWinnerOfSlot != nil || e.Team1FromLoserOfSlot != nil},
			{e.Team2, e.Team2FromWinnerOfSlot != nil || e.Team2FromLoserOfSlot != nil},
		}
		for _, side := range sides {
			if side.team == nil || side.hasLineage {
				continue
			}
			if _, ok := seen[*side.team]; ok {
				continue
			}
			seen[*side.team] = struct{}{}
			byes = append(byes, byeEntry(e.LeagueID, e.BracketType, *side.team))
		}
	}
	return byes
}

func byeEntry(leagueID string, bracketType models.BracketType, rosterID int) models.BracketEntry {
	return models.BracketEntry{
		LeagueID:    leagueID,
		BracketType: bracketType,
		SlotID:      ByeSlotID(rosterID),
		Week:        models.WeekForRound(1),
		Round:       1,
		Team1:       intPtr(rosterID),
		IsBye:       true,
	}
}
