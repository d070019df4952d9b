package brackets

import (
	"fmt"

	"github.com/Dosada05/fantasy-playoffs/models"
)

type ReconcileResult struct {
	BracketType models.BracketType
	// Entries holds one row per upstream slot followed by the synthesized byes.
	Entries     []models.BracketEntry
	Byes        int
	Ambiguities []MatchupAmbiguity
}

// Reconcile runs normalization, ledger enrichment and bye derivation for one bracket of
// one league. It never touches storage.
func Reconcile(leagueID string, bracketType models.BracketType, raw []models.RawBracketSlot, ledger LedgerIndex) (*ReconcileResult, error) {
	slots, err := NormalizeSlots(raw)
	if err != nil {
		return nil, fmt.Errorf("league %s %s bracket: %w", leagueID, bracketType, err)
	}

	enriched := EnrichSlots(leagueID, bracketType, slots, ledger)
	byes := DeriveByes(enriched.Entries)

	entries := make([]models.BracketEntry, 0, len(enriched.Entries)+len(byes))
	entries = append(entries, enriched.Entries...)
	entries = append(entries, byes...)

	return &ReconcileResult{
		BracketType: bracketType,
		Entries:     entries,
		Byes:        len(byes),
		Ambiguities: enriched.Ambiguities,
	}, nil
}
