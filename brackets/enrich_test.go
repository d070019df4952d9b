package brackets

import (
	"testing"

	"github.com/Dosada05/fantasy-playoffs/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLeague = "784512"

func ledgerRow(id int, week int, matchupID *int, home int, away *int) models.MatchupLedgerRow {
	return models.MatchupLedgerRow{
		ID:           id,
		LeagueID:     testLeague,
		Week:         week,
		MatchupID:    matchupID,
		HomeRosterID: home,
		AwayRosterID: away,
	}
}

func TestEnrichSlots_AttachesLedgerMatchup(t *testing.T) {
	ledger := NewLedgerIndex(testLeague, []models.MatchupLedgerRow{
		ledgerRow(1, 15, ptr(1), 3, ptr(6)),
		ledgerRow(2, 15, ptr(2), 4, ptr(5)),
		ledgerRow(3, 16, ptr(1), 1, ptr(3)),
		ledgerRow(4, 16, ptr(2), 2, ptr(5)),
	})

	slots, err := NormalizeSlots(sixTeamWinners())
	require.NoError(t, err)

	res := EnrichSlots(testLeague, models.BracketWinners, slots, ledger)
	require.Len(t, res.Entries, len(slots))
	assert.Empty(t, res.Ambiguities)

	bySlot := make(map[int]models.BracketEntry)
	for _, e := range res.Entries {
		bySlot[e.SlotID] = e
	}

	// week 16 slot with teams 1 and 3 resolves to the week 16 matchup, not the week 15 one
	require.NotNil(t, bySlot[3].MatchupID)
	assert.Equal(t, 1, *bySlot[3].MatchupID)
	assert.Equal(t, 16, bySlot[3].Week)

	require.NotNil(t, bySlot[2].MatchupID)
	assert.Equal(t, 2, *bySlot[2].MatchupID)

	assert.Nil(t, bySlot[6].MatchupID, "unseeded slot has no matchup")
	assert.Equal(t, 17, bySlot[6].Week)
}

func TestEnrichSlots_WeekIsRoundPlusFourteen(t *testing.T) {
	slots, err := NormalizeSlots(sixTeamWinners())
	require.NoError(t, err)

	res := EnrichSlots(testLeague, models.BracketWinners, slots, LedgerIndex{})
	for _, e := range res.Entries {
		assert.Equal(t, e.Round+14, e.Week, "slot %d", e.SlotID)
		assert.Nil(t, e.MatchupID)
	}
}

func TestEnrichSlots_CopiesReferenceColumns(t *testing.T) {
	slots, err := NormalizeSlots(sixTeamWinners())
	require.NoError(t, err)

	res := EnrichSlots(testLeague, models.BracketWinners, slots, LedgerIndex{})
	var consolation models.BracketEntry
	for _, e := range res.Entries {
		if e.SlotID == 5 {
			consolation = e
		}
	}

	assert.Nil(t, consolation.Team1FromWinnerOfSlot)
	require.NotNil(t, consolation.Team1FromLoserOfSlot)
	assert.Equal(t, 1, *consolation.Team1FromLoserOfSlot)
	assert.Nil(t, consolation.Team2FromWinnerOfSlot)
	require.NotNil(t, consolation.Team2FromLoserOfSlot)
	assert.Equal(t, 2, *consolation.Team2FromLoserOfSlot)
	assert.True(t, consolation.HasForwardReference())
}

func TestEnrichSlots_AmbiguousMatchPicksFirstAndReports(t *testing.T) {
	// roster 1 and roster 3 each appear in a different week 16 matchup
	ledger := NewLedgerIndex(testLeague, []models.MatchupLedgerRow{
		ledgerRow(10, 16, ptr(4), 1, ptr(8)),
		ledgerRow(11, 16, ptr(2), 3, ptr(9)),
	})
	slots := []models.BracketSlot{{SlotID: 3, Round: 2, Team1: ptr(1), Team2: ptr(3)}}

	res := EnrichSlots(testLeague, models.BracketWinners, slots, ledger)
	require.Len(t, res.Entries, 1)
	require.NotNil(t, res.Entries[0].MatchupID)
	assert.Equal(t, 4, *res.Entries[0].MatchupID)

	require.Len(t, res.Ambiguities, 1)
	assert.Equal(t, MatchupAmbiguity{
		BracketType: models.BracketWinners,
		SlotID:      3,
		Week:        16,
		Candidates:  []int{4, 2},
	}, res.Ambiguities[0])
}

func TestNewLedgerIndex_SkipsByeRowsAndOtherLeagues(t *testing.T) {
	other := ledgerRow(3, 15, ptr(7), 1, ptr(2))
	other.LeagueID = "other"

	idx := NewLedgerIndex(testLeague, []models.MatchupLedgerRow{
		ledgerRow(1, 15, nil, 1, nil),
		ledgerRow(2, 15, ptr(1), 3, ptr(6)),
		other,
	})

	require.Len(t, idx[15], 1)
	assert.Equal(t, 2, idx[15][0].ID)

	// a slot holding only roster 1 must not pick up the bye row or the other league
	res := EnrichSlots(testLeague, models.BracketWinners,
		[]models.BracketSlot{{SlotID: 1, Round: 1, Team1: ptr(1)}}, idx)
	assert.Nil(t, res.Entries[0].MatchupID)
	assert.Empty(t, res.Ambiguities)
}

func TestEnrichSlots_DuplicateLedgerRowsAreOneCandidate(t *testing.T) {
	// both sides of a head-to-head stored as separate rows
	idx := NewLedgerIndex(testLeague, []models.MatchupLedgerRow{
		ledgerRow(1, 15, ptr(3), 1, ptr(2)),
		ledgerRow(2, 15, ptr(3), 2, ptr(1)),
	})

	res := EnrichSlots(testLeague, models.BracketLosers,
		[]models.BracketSlot{{SlotID: 1, Round: 1, Team1: ptr(1), Team2: ptr(2)}}, idx)
	require.NotNil(t, res.Entries[0].MatchupID)
	assert.Equal(t, 3, *res.Entries[0].MatchupID)
	assert.Empty(t, res.Ambiguities)
}

func TestEnrichSlots_SingleLedgerRow(t *testing.T) {
	idx := NewLedgerIndex(testLeague, []models.MatchupLedgerRow{
		ledgerRow(1, 15, ptr(42), 7, ptr(9)),
	})

	res := EnrichSlots(testLeague, models.BracketLosers,
		[]models.BracketSlot{{SlotID: 1, Round: 1, Team1: ptr(7), Team2: ptr(9)}}, idx)
	require.NotNil(t, res.Entries[0].MatchupID)
	assert.Equal(t, 42, *res.Entries[0].MatchupID)
}

func TestEnrichSlots_HandBuiltIndexWithByeRow(t *testing.T) {
	idx := LedgerIndex{15: {
		ledgerRow(1, 15, nil, 1, nil),
		ledgerRow(2, 15, ptr(4), 1, ptr(8)),
	}}

	var res EnrichResult
	require.NotPanics(t, func() {
		res = EnrichSlots(testLeague, models.BracketWinners,
			[]models.BracketSlot{{SlotID: 1, Round: 1, Team1: ptr(1), Team2: ptr(8)}}, idx)
	})
	require.NotNil(t, res.Entries[0].MatchupID)
	assert.Equal(t, 4, *res.Entries[0].MatchupID)
	assert.Empty(t, res.Ambiguities)
}
