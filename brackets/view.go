package brackets

import (
	"sort"

	"github.com/Dosada05/fantasy-playoffs/models"
)

// AssembleView groups persisted entries into the winners and losers trees. Rounds are
// ordered final-first; entries inside a round by slot id. The input is not modified.
func AssembleView(leagueID string, entries []models.BracketEntry) *models.BracketView {
	byType := make(map[models.BracketType]map[int][]models.BracketViewEntry, len(models.BracketTypes))
	for _, e := range entries {
		rounds, ok := byType[e.BracketType]
		if !ok {
			rounds = make(map[int][]models.BracketViewEntry)
			byType[e.BracketType] = rounds
		}
		rounds[e.Round] = append(rounds[e.Round], models.BracketViewEntry{BracketEntry: e, State: e.State()})
	}

	return &models.BracketView{
		LeagueID:       leagueID,
		WinnersBracket: orderRounds(byType[models.BracketWinners]),
		LosersBracket:  orderRounds(byType[models.BracketLosers]),
	}
}

func orderRounds(rounds map[int][]models.BracketViewEntry) []models.BracketRound {
	ordered := make([]models.BracketRound, 0, len(rounds))
	for round, entries := range rounds {
		sort.Slice(entries, func(i, j int) bool { return entries[i].SlotID < entries[j].SlotID })
		ordered = append(ordered, models.BracketRound{
			Round:   round,
			Week:    models.WeekForRound(round),
			Entries: entries,
		})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Round > ordered[j].Round })
	return ordered
}
