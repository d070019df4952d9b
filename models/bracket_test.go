package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekForRound(t *testing.T) {
	assert.Equal(t, 15, WeekForRound(1))
	assert.Equal(t, 16, WeekForRound(2))
	assert.Equal(t, 17, WeekForRound(3))
}

func TestParseBracketType(t *testing.T) {
	bt, err := ParseBracketType("Winners")
	assert.NoError(t, err)
	assert.Equal(t, BracketWinners, bt)

	bt, err = ParseBracketType("losers")
	assert.NoError(t, err)
	assert.Equal(t, BracketLosers, bt)

	_, err = ParseBracketType("toilet")
	assert.ErrorIs(t, err, ErrInvalidBracketType)
}

func TestBracketEntryState(t *testing.T) {
	one, two := 1, 2
	assert.Equal(t, SlotUnseeded, BracketEntry{}.State())
	assert.Equal(t, SlotSeeded, BracketEntry{Team2: &two}.State())
	assert.Equal(t, SlotResolved, BracketEntry{Team1: &one, Team2: &two, WinnerID: &one}.State())
	assert.Equal(t, SlotResolved, BracketEntry{LoserID: &two}.State())
}

func TestMatchupLedgerRow(t *testing.T) {
	id, away := 3, 6
	row := MatchupLedgerRow{MatchupID: &id, HomeRosterID: 3, AwayRosterID: &away}
	assert.False(t, row.IsBye())
	assert.True(t, row.Involves(3))
	assert.True(t, row.Involves(6))
	assert.False(t, row.Involves(4))

	bye := MatchupLedgerRow{HomeRosterID: 1}
	assert.True(t, bye.IsBye())
	assert.False(t, bye.Involves(2))
}

func TestReferenceKindString(t *testing.T) {
	assert.Equal(t, "winner_of", ReferenceWinnerOf.String())
	assert.Equal(t, "loser_of", ReferenceLoserOf.String())
	assert.Equal(t, "none", ReferenceNone.String())
}
