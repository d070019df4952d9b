package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlayoffWeekOffset maps a bracket round onto the NFL week it is played in: round 1 is week 15.
const PlayoffWeekOffset = 14

type BracketType string

const (
	BracketWinners BracketType = "winners"
	BracketLosers  BracketType = "losers"
)

// BracketTypes lists every bracket a league has, in presentation order.
var BracketTypes = []BracketType{BracketWinners, BracketLosers}

var ErrInvalidBracketType = errors.New("invalid bracket type")

func (t BracketType) Valid() bool {
	return t == BracketWinners || t == BracketLosers
}

func ParseBracketType(s string) (BracketType, error) {
	t := BracketType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBracketType, s)
	}
	return t, nil
}

// WeekForRound returns the league week a bracket round is scheduled in.
func WeekForRound(round int) int {
	return PlayoffWeekOffset + round
}

// RawReference is the undecoded advancement value Sleeper sends in t1_from/t2_from,
// normally {"w": 1} or {"l": 2}. It is empty when the field is absent and "null" when
// Sleeper sends null. Any other shape is kept as-is for the normalizer to reject.
type RawReference json.RawMessage

func (r RawReference) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RawReference) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("models.RawReference: UnmarshalJSON on nil pointer")
	}
	*r = append((*r)[0:0], data...)
	return nil
}

// RawBracketSlot mirrors one element of Sleeper's winners_bracket/losers_bracket arrays.
type RawBracketSlot struct {
	SlotID    int          `json:"m"`
	Round     int          `json:"r"`
	Team1     *int         `json:"t1"`
	Team2     *int         `json:"t2"`
	WinnerID  *int         `json:"w"`
	LoserID   *int         `json:"l"`
	Place     *int         `json:"p,omitempty"`
	Team1From RawReference `json:"t1_from,omitempty"`
	Team2From RawReference `json:"t2_from,omitempty"`
}

type ReferenceKind int

const (
	ReferenceNone ReferenceKind = iota
	ReferenceWinnerOf
	ReferenceLoserOf
)

func (k ReferenceKind) String() string {
	switch k {
	case ReferenceWinnerOf:
		return "winner_of"
	case ReferenceLoserOf:
		return "loser_of"
	default:
		return "none"
	}
}

// AdvancementReference says a slot side is filled by the winner or loser of an earlier slot.
type AdvancementReference struct {
	Kind   ReferenceKind
	SlotID int
}

func NoReference() AdvancementReference { return AdvancementReference{Kind: ReferenceNone} }

func WinnerOf(slotID int) AdvancementReference {
	return AdvancementReference{Kind: ReferenceWinnerOf, SlotID: slotID}
}

func LoserOf(slotID int) AdvancementReference {
	return AdvancementReference{Kind: ReferenceLoserOf, SlotID: slotID}
}

func (r AdvancementReference) IsNone() bool { return r.Kind == ReferenceNone }

// Columns splits the reference into its persisted (winner-of, loser-of) pair.
func (r AdvancementReference) Columns() (winnerOf *int, loserOf *int) {
	id := r.SlotID
	switch r.Kind {
	case ReferenceWinnerOf:
		return &id, nil
	case ReferenceLoserOf:
		return nil, &id
	default:
		return nil, nil
	}
}

// BracketSlot is a raw slot whose advancement references passed validation.
type BracketSlot struct {
	SlotID      int
	Round       int
	Team1       *int
	Team2       *int
	WinnerID    *int
	LoserID     *int
	Place       *int
	Team1Source AdvancementReference
	Team2Source AdvancementReference
}

// MatchupLedgerRow is one pairing from the weekly matchups table. A nil MatchupID marks a bye week.
type MatchupLedgerRow struct {
	ID           int    `json:"id"`
	LeagueID     string `json:"league_id"`
	Week         int    `json:"week"`
	MatchupID    *int   `json:"matchup_id,omitempty"`
	HomeRosterID int    `json:"home_roster_id"`
	AwayRosterID *int   `json:"away_roster_id,omitempty"`
}

func (r MatchupLedgerRow) IsBye() bool { return r.MatchupID == nil }

// Involves reports whether the roster played on either side of this pairing.
func (r MatchupLedgerRow) Involves(rosterID int) bool {
	if r.HomeRosterID == rosterID {
		return true
	}
	return r.AwayRosterID != nil && *r.AwayRosterID == rosterID
}

type SlotState string

const (
	SlotUnseeded SlotState = "unseeded"
	SlotSeeded   SlotState = "seeded"
	SlotResolved SlotState = "resolved"
)

// BracketEntry is the persisted row for one bracket slot of one league.
type BracketEntry struct {
	LeagueID              string      `json:"league_id" db:"league_id"`
	BracketType           BracketType `json:"bracket_type" db:"bracket_type"`
	SlotID                int         `json:"slot_id" db:"slot_id"`
	MatchupID             *int        `json:"matchup_id" db:"matchup_id"`
	Week                  int         `json:"week" db:"week"`
	Round                 int         `json:"round" db:"round"`
	WinnerID              *int        `json:"winner_id" db:"winner_id"`
	LoserID               *int        `json:"loser_id" db:"loser_id"`
	Place                 *int        `json:"place" db:"place"`
	Team1                 *int        `json:"team1" db:"team1"`
	Team2                 *int        `json:"team2" db:"team2"`
	Team1FromWinnerOfSlot *int        `json:"team1_from_winner_of_slot" db:"team1_from_winner_of_slot"`
	Team1FromLoserOfSlot  *int        `json:"team1_from_loser_of_slot" db:"team1_from_loser_of_slot"`
	Team2FromWinnerOfSlot *int        `json:"team2_from_winner_of_slot" db:"team2_from_winner_of_slot"`
	Team2FromLoserOfSlot  *int        `json:"team2_from_loser_of_slot" db:"team2_from_loser_of_slot"`
	IsBye                 bool        `json:"is_bye" db:"is_bye"`
	UpdatedAt             time.Time   `json:"-" db:"updated_at"`
}

// State infers the slot lifecycle stage from which fields are populated.
func (e BracketEntry) State() SlotState {
	if e.WinnerID != nil || e.LoserID != nil {
		return SlotResolved
	}
	if e.Team1 != nil || e.Team2 != nil {
		return SlotSeeded
	}
	return SlotUnseeded
}

// HasForwardReference reports whether either side points at an earlier slot.
func (e BracketEntry) HasForwardReference() bool {
	return e.Team1FromWinnerOfSlot != nil || e.Team1FromLoserOfSlot != nil ||
		e.Team2FromWinnerOfSlot != nil || e.Team2FromLoserOfSlot != nil
}

// BracketViewEntry is a BracketEntry as presented by the read API.
type BracketViewEntry struct {
	BracketEntry
	State SlotState `json:"state"`
}

type BracketRound struct {
	Round   int                `json:"round"`
	Week    int                `json:"week"`
	Entries []BracketViewEntry `json:"entries"`
}

type BracketView struct {
	LeagueID       string         `json:"league_id"`
	WinnersBracket []BracketRound `json:"winners_bracket"`
	LosersBracket  []BracketRound `json:"losers_bracket"`
}
