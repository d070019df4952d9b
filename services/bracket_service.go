package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/fantasy-playoffs/brackets"
	"github.com/Dosada05/fantasy-playoffs/models"
	"github.com/Dosada05/fantasy-playoffs/repositories"
	"github.com/Dosada05/fantasy-playoffs/sleeper"
	"github.com/Dosada05/fantasy-playoffs/storage"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultUpsertBatchSize   = 10
	DefaultLeagueConcurrency = 4
)

// SyncResult summarizes one league's bracket sync.
type SyncResult struct {
	LeagueID        string        `json:"league_id"`
	EntriesWritten  int           `json:"entries_written"`
	ByesSynthesized int           `json:"byes_synthesized"`
	Ambiguities     int           `json:"ambiguous_matchups"`
	Duration        time.Duration `json:"duration_ns"`
}

type BracketService interface {
	SyncBracket(ctx context.Context, leagueID string) (*SyncResult, error)
	SyncLeagues(ctx context.Context, leagueIDs []string) ([]*SyncResult, error)
	GetBracketView(ctx context.Context, leagueID string) (*models.BracketView, error)
}

// BracketNotifier is told about every league whose bracket was rewritten.
type BracketNotifier interface {
	NotifyBracketUpdated(leagueID string, payload interface{})
}

type BracketServiceConfig struct {
	UpsertBatchSize   int
	LeagueConcurrency int
}

type bracketService struct {
	source     sleeper.Client
	entryRepo  repositories.BracketEntryRepository
	ledgerRepo repositories.MatchupLedgerRepository
	archiver   storage.SnapshotArchiver
	notifier   BracketNotifier
	logger     *slog.Logger

	batchSize         int
	leagueConcurrency int
}

func NewBracketService(
	source sleeper.Client,
	entryRepo repositories.BracketEntryRepository,
	ledgerRepo repositories.MatchupLedgerRepository,
	archiver storage.SnapshotArchiver,
	notifier BracketNotifier,
	logger *slog.Logger,
	cfg BracketServiceConfig,
) BracketService {
	if archiver == nil {
		archiver = storage.NopArchiver{}
	}
	if cfg.UpsertBatchSize <= 0 {
		cfg.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if cfg.LeagueConcurrency <= 0 {
		cfg.LeagueConcurrency = DefaultLeagueConcurrency
	}
	return &bracketService{
		source:            source,
		entryRepo:         entryRepo,
		ledgerRepo:        ledgerRepo,
		archiver:          archiver,
		notifier:          notifier,
		logger:            logger,
		batchSize:         cfg.UpsertBatchSize,
		leagueConcurrency: cfg.LeagueConcurrency,
	}
}

type leagueInputs struct {
	raw    map[models.BracketType][]models.RawBracketSlot
	ledger []models.MatchupLedgerRow
	stored []models.BracketEntry
}

func (s *bracketService) loadInputs(ctx context.Context, leagueID string) (*leagueInputs, error) {
	in := &leagueInputs{raw: make(map[models.BracketType][]models.RawBracketSlot, len(models.BracketTypes))}
	winners := make([]models.RawBracketSlot, 0)
	losers := make([]models.RawBracketSlot, 0)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slots, err := s.source.GetBracketSlots(gCtx, leagueID, models.BracketWinners)
		if err != nil {
			return err
		}
		winners = slots
		return nil
	})

	g.Go(func() error {
		slots, err := s.source.GetBracketSlots(gCtx, leagueID, models.BracketLosers)
		if err != nil {
			return err
		}
		losers = slots
		return nil
	})

	g.Go(func() error {
		ledger, err := s.ledgerRepo.ListByLeague(gCtx, leagueID)
		if err != nil {
			return err
		}
		in.ledger = ledger
		return nil
	})

	g.Go(func() error {
		stored, err := s.entryRepo.ListByLeague(gCtx, leagueID)
		if err != nil {
			return err
		}
		in.stored = stored
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	in.raw[models.BracketWinners] = winners
	in.raw[models.BracketLosers] = losers
	return in, nil
}

func (s *bracketService) SyncBracket(ctx context.Context, leagueID string) (*SyncResult, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, ErrLeagueIDRequired
	}
	started := time.Now()
	logger := s.logger.With(slog.String("league_id", leagueID))

	in, err := s.loadInputs(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket inputs for league %s: %w", leagueID, err)
	}

	ledger := brackets.NewLedgerIndex(leagueID, in.ledger)
	result := &SyncResult{LeagueID: leagueID}
	entries := make([]models.BracketEntry, 0)

	// Bracket types are reconciled independently: an integrity error drops every row of
	// that type but leaves the other type's rows to be written.
	var integrityErrs []error
	for _, bracketType := range models.BracketTypes {
		s.archiveSnapshot(ctx, logger, leagueID, bracketType, in.raw[bracketType])

		reconciled, err := brackets.Reconcile(leagueID, bracketType, in.raw[bracketType], ledger)
		if err != nil {
			logger.Error("bracket rejected, keeping stored rows",
				slog.String("bracket_type", string(bracketType)),
				slog.Any("error", err),
			)
			integrityErrs = append(integrityErrs, err)
			continue
		}
		for _, a := range reconciled.Ambiguities {
			logger.Warn("ambiguous matchup cross-reference, using first candidate",
				slog.String("bracket_type", string(a.BracketType)),
				slog.Int("slot_id", a.SlotID),
				slog.Int("week", a.Week),
				slog.Any("candidates", a.Candidates),
			)
		}
		result.ByesSynthesized += reconciled.Byes
		result.Ambiguities += len(reconciled.Ambiguities)
		entries = append(entries, reconciled.Entries...)
	}

	entries = preserveResolved(entries, in.stored)
	sortEntries(entries)

	written, err := s.upsertInBatches(ctx, entries)
	result.EntriesWritten = written
	if err != nil {
		logger.Error("bracket sync aborted", slog.Int("entries_written", written), slog.Any("error", err))
		return nil, errors.Join(append(integrityErrs, err)...)
	}
	result.Duration = time.Since(started)

	if written > 0 && s.notifier != nil {
		s.notifier.NotifyBracketUpdated(leagueID, result)
	}

	if len(integrityErrs) > 0 {
		logger.Warn("bracket partially synced",
			slog.Int("entries_written", result.EntriesWritten),
			slog.Int("rejected_brackets", len(integrityErrs)),
		)
		return nil, errors.Join(integrityErrs...)
	}

	logger.Info("bracket synced",
		slog.Int("entries_written", result.EntriesWritten),
		slog.Int("byes_synthesized", result.ByesSynthesized),
		slog.Int("ambiguous_matchups", result.Ambiguities),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

// SyncLeagues syncs each league independently with bounded concurrency. A failing league
// does not stop the others; all failures are joined into the returned error.
func (s *bracketService) SyncLeagues(ctx context.Context, leagueIDs []string) ([]*SyncResult, error) {
	results := make([]*SyncResult, len(leagueIDs))
	errs := make([]error, len(leagueIDs))

	var g errgroup.Group
	g.SetLimit(s.leagueConcurrency)
	for i, leagueID := range leagueIDs {
		g.Go(func() error {
			res, err := s.SyncBracket(ctx, leagueID)
			if err != nil {
				errs[i] = fmt.Errorf("league %s: %w", leagueID, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (s *bracketService) GetBracketView(ctx context.Context, leagueID string) (*models.BracketView, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, ErrLeagueIDRequired
	}
	entries, err := s.entryRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket for league %s: %w", leagueID, err)
	}
	if len(entries) == 0 {
		return nil, ErrBracketNotFound
	}
	return brackets.AssembleView(leagueID, entries), nil
}

// upsertInBatches writes entries in fixed-size chunks. Rows inside a chunk are written
// concurrently; a failed chunk stops the remaining ones. It returns how many rows were
// written by completed chunks.
func (s *bracketService) upsertInBatches(ctx context.Context, entries []models.BracketEntry) (int, error) {
	written := 0
	for start := 0; start < len(entries); start += s.batchSize {
		end := min(start+s.batchSize, len(entries))
		chunk := entries[start:end]

		g, gCtx := errgroup.WithContext(ctx)
		for i := range chunk {
			entry := &chunk[i]
			g.Go(func() error {
				return s.entryRepo.Upsert(gCtx, nil, entry)
			})
		}
		if err := g.Wait(); err != nil {
			return written, fmt.Errorf("%w: rows %d-%d: %w", ErrPersistChunk, start, end-1, err)
		}
		written += len(chunk)
	}
	return written, nil
}

func (s *bracketService) archiveSnapshot(ctx context.Context, logger *slog.Logger, leagueID string, bracketType models.BracketType, raw []models.RawBracketSlot) {
	payload, err := json.Marshal(raw)
	if err != nil {
		logger.Warn("failed to encode bracket snapshot", slog.String("bracket_type", string(bracketType)), slog.Any("error", err))
		return
	}
	key := storage.SnapshotKey(leagueID, string(bracketType))
	if _, err := s.archiver.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		logger.Warn("failed to archive bracket snapshot", slog.String("key", key), slog.Any("error", err))
	}
}

type entryKey struct {
	bracketType models.BracketType
	slotID      int
}

// preserveResolved keeps already persisted facts that a newer upstream snapshot lacks:
// a stored matchup id is never replaced, and known teams and results never revert to null.
func preserveResolved(next []models.BracketEntry, stored []models.BracketEntry) []models.BracketEntry {
	if len(stored) == 0 {
		return next
	}
	byKey := make(map[entryKey]models.BracketEntry, len(stored))
	for _, e := range stored {
		byKey[entryKey{e.BracketType, e.SlotID}] = e
	}

	for i := range next {
		prev, ok := byKey[entryKey{next[i].BracketType, next[i].SlotID}]
		if !ok {
			continue
		}
		if prev.MatchupID != nil {
			next[i].MatchupID = prev.MatchupID
		}
		next[i].WinnerID = keepKnown(next[i].WinnerID, prev.WinnerID)
		next[i].LoserID = keepKnown(next[i].LoserID, prev.LoserID)
		next[i].Place = keepKnown(next[i].Place, prev.Place)
		next[i].Team1 = keepKnown(next[i].Team1, prev.Team1)
		next[i].Team2 = keepKnown(next[i].Team2, prev.Team2)
	}
	return next
}

func keepKnown(next, prev *int) *int {
	if next == nil {
		return prev
	}
	return next
}

func sortEntries(entries []models.BracketEntry) {
	typeOrder := func(t models.BracketType) int {
		if t == models.BracketWinners {
			return 0
		}
		return 1
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BracketType != b.BracketType {
			return typeOrder(a.BracketType) < typeOrder(b.BracketType)
		}
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		return a.SlotID < b.SlotID
	})
}
