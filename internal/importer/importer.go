package importer

import (
	"context"
	"sync"
	"time"

	"github.com/arpithpm/expense-manager-sub001/internal/logger"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
	"github.com/arpithpm/expense-manager-sub001/internal/store"
)

// Importer runs bulk imports against a record store. Duplicate
// classification depends on everything already in the collection plus
// everything accepted earlier in the batch, so batches against the same
// store are serialized: one import at a time. Preview reads take no lock.
type Importer struct {
	mu     sync.Mutex
	store  store.Store
	merger *Merger
	now    func() time.Time
}

// NewImporter creates an importer over the given store.
func NewImporter(st store.Store, merger *Merger) *Importer {
	if merger == nil {
		merger = NewMerger(nil)
	}
	return &Importer{store: st, merger: merger, now: time.Now}
}

// ImportDocument parses a bulk import document and merges its candidates
// into the store. Records accepted before a cancellation are persisted;
// there is no rollback of a partially completed import.
func (imp *Importer) ImportDocument(ctx context.Context, data []byte, opts Options) (*models.ImportResult, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return imp.Import(ctx, doc, opts)
}

// Import merges a parsed document into the store under single-writer
// discipline.
func (imp *Importer) Import(ctx context.Context, doc *Document, opts Options) (*models.ImportResult, error) {
	imp.mu.Lock()
	defer imp.mu.Unlock()

	existing, err := imp.store.List(ctx)
	if err != nil {
		return nil, err
	}

	result, accepted, mergeErr := imp.merger.Merge(ctx, doc.Candidates, existing, opts)

	// Undecodable records count as skipped alongside validation failures.
	result.SkippedCount += len(doc.Rejected)
	result.Errors = append(result.Errors, doc.Rejected...)

	if len(accepted) > 0 {
		now := imp.now()
		for i := range accepted {
			if accepted[i].CreatedAt.IsZero() {
				accepted[i].CreatedAt = now
			}
			accepted[i].UpdatedAt = now
		}
		if err := imp.store.Add(ctx, accepted...); err != nil {
			return result, err
		}
	}

	logger.Log.Info().
		Int("imported", result.ImportedCount).
		Int("duplicates", result.DuplicateCount).
		Int("skipped", result.SkippedCount).
		Msg("Import batch finished")

	return result, mergeErr
}

// ImportAsync starts an import in the background and delivers the result
// on the returned channel. Cancellation takes effect between candidate
// records.
func (imp *Importer) ImportAsync(ctx context.Context, doc *Document, opts Options) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		result, err := imp.Import(ctx, doc, opts)
		ch <- AsyncResult{Result: result, Err: err}
		close(ch)
	}()
	return ch
}

// AsyncResult is the outcome of a background import.
type AsyncResult struct {
	Result *models.ImportResult
	Err    error
}

// Preview summarizes a parsed document without merging it. Safe to run
// concurrently with an active import.
func (imp *Importer) Preview(doc *Document) models.ImportSummary {
	return Summarize(doc.Candidates)
}
