package brackets

import (
	"fmt"

	"github.com/Dosada05/fantasy-playoffs/models"
)

func ptr(v int) *int { return &v }

func winnerRef(slot int) models.RawReference {
	return models.RawReference(fmt.Sprintf(`{"w":%d}`, slot))
}

func loserRef(slot int) models.RawReference {
	return models.RawReference(fmt.Sprintf(`{"l":%d}`, slot))
}

// sixTeamWinners is a six-team championship bracket where seeds 1 and 2 skip round 1.
func sixTeamWinners() []models.RawBracketSlot {
	return []models.RawBracketSlot{
		{SlotID: 1, Round: 1, Team1: ptr(3), Team2: ptr(6), WinnerID: ptr(3), LoserID: ptr(6)},
		{SlotID: 2, Round: 1, Team1: ptr(4), Team2: ptr(5), WinnerID: ptr(5), LoserID: ptr(4)},
		{SlotID: 3, Round: 2, Team1: ptr(1), Team2: ptr(3), Team2From: winnerRef(1)},
		{SlotID: 4, Round: 2, Team1: ptr(2), Team2: ptr(5), Team2From: winnerRef(2)},
		{SlotID: 5, Round: 2, Team1: ptr(6), Team2: ptr(4), Team1From: loserRef(1), Team2From: loserRef(2), Place: ptr(5)},
		{SlotID: 6, Round: 3, Team1From: winnerRef(3), Team2From: winnerRef(4), Place: ptr(1)},
		{SlotID: 7, Round: 3, Team1From: loserRef(3), Team2From: loserRef(4), Place: ptr(3)},
	}
}
