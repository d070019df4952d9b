package brackets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/Dosada05/fantasy-playoffs/models"
)

const (
	winnerMarker = "w"
	loserMarker  = "l"
)

// NormalizeReference turns Sleeper's loosely shaped {"w": n} / {"l": n} value into a
// typed reference. An absent or null value means no reference. Anything that is not an
// object, or an object that carries both markers or neither, is rejected: bracket shape
// is never guessed.
func NormalizeReference(raw models.RawReference) (models.AdvancementReference, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return models.NoReference(), nil
	}
	if trimmed[0] != '{' {
		return models.NoReference(), fmt.Errorf("%w: expected an object, got %s", ErrInvalidReference, trimmed)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return models.NoReference(), fmt.Errorf("%w: malformed object %s", ErrInvalidReference, trimmed)
	}

	winnerRaw, hasWinner := obj[winnerMarker]
	loserRaw, hasLoser := obj[loserMarker]

	switch {
	case hasWinner && hasLoser:
		return models.NoReference(), fmt.Errorf("%w: both %q and %q markers present", ErrInvalidReference, winnerMarker, loserMarker)
	case !hasWinner && !hasLoser:
		return models.NoReference(), fmt.Errorf("%w: no %q or %q marker in %s", ErrInvalidReference, winnerMarker, loserMarker, describeKeys(obj))
	case hasWinner:
		slotID, err := parseSlotID(winnerRaw)
		if err != nil {
			return models.NoReference(), err
		}
		return models.WinnerOf(slotID), nil
	default:
		slotID, err := parseSlotID(loserRaw)
		if err != nil {
			return models.NoReference(), err
		}
		return models.LoserOf(slotID), nil
	}
}

func parseSlotID(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%w: slot id %s is not a number", ErrInvalidReference, string(raw))
	}
	slotID, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("%w: slot id %s is not an integer", ErrInvalidReference, n.String())
	}
	if slotID <= 0 {
		return 0, fmt.Errorf("%w: slot id %d must be positive", ErrInvalidReference, slotID)
	}
	return slotID, nil
}

func describeKeys(raw map[string]json.RawMessage) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, strconv.Quote(k))
	}
	sort.Strings(keys)
	return fmt.Sprintf("object with keys %v", keys)
}

// NormalizeSlots validates one bracket's raw slots and converts their references.
// Any integrity violation fails the whole bracket; no partial result is returned.
func NormalizeSlots(raw []models.RawBracketSlot) ([]models.BracketSlot, error) {
	seen := make(map[int]struct{}, len(raw))
	slots := make([]models.BracketSlot, 0, len(raw))

	for _, rs := range raw {
		if rs.Round < 1 {
			return nil, fmt.Errorf("%w: slot %d has round %d", ErrInvalidSlot, rs.SlotID, rs.Round)
		}
		if rs.SlotID <= 0 {
			return nil, fmt.Errorf("%w: slot id %d must be positive", ErrInvalidSlot, rs.SlotID)
		}
		if _, dup := seen[rs.SlotID]; dup {
			return nil, fmt.Errorf("%w: duplicate slot id %d", ErrInvalidSlot, rs.SlotID)
		}
		seen[rs.SlotID] = struct{}{}

		for _, roster := range []*int{rs.Team1, rs.Team2, rs.WinnerID, rs.LoserID} {
			if roster != nil && *roster <= 0 {
				return nil, fmt.Errorf("%w: slot %d references roster %d", ErrInvalidSlot, rs.SlotID, *roster)
			}
		}

		team1Source, err := NormalizeReference(rs.Team1From)
		if err != nil {
			return nil, fmt.Errorf("slot %d team1: %w", rs.SlotID, err)
		}
		team2Source, err := NormalizeReference(rs.Team2From)
		if err != nil {
			return nil, fmt.Errorf("slot %d team2: %w", rs.SlotID, err)
		}
		if rs.Round == 1 && (!team1Source.IsNone() || !team2Source.IsNone()) {
			return nil, fmt.Errorf("%w: round 1 slot %d has a forward reference", ErrInvalidSlot, rs.SlotID)
		}

		slots = append(slots, models.BracketSlot{
			SlotID:      rs.SlotID,
			Round:       rs.Round,
			Team1:       rs.Team1,
			Team2:       rs.Team2,
			WinnerID:    rs.WinnerID,
			LoserID:     rs.LoserID,
			Place:       rs.Place,
			Team1Source: team1Source,
			Team2Source: team2Source,
		})
	}
	return slots, nil
}
