// Package syncer serializes vocabulary mutations and keeps the durable
// store, the generated mirror, and the runtime classifier cache in step.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/brandpulse/triage/internal/classify"
	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/brandpulse/triage/internal/storage"
	"github.com/brandpulse/triage/internal/vocab"
)

// Coordinator is the single entry point for vocabulary mutations. All
// mutating operations run under one mutex: a mutation either fully
// commits (store, then mirror, then cache) or leaves the prior state
// untouched. A mirror failure after a successful durable write degrades
// the sync instead of rolling back; the next successful mutation or an
// explicit Resync repairs it.
type Coordinator struct {
	store      *vocab.Store
	mirror     *vocab.Mirror
	classifier *classify.Classifier
	journal    *storage.Journal
	onDegraded func(bool)
	current    *vocab.Vocabulary
	maintainer string
	degraded   bool
	mu         sync.Mutex
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithJournal attaches a mutation journal. Journal writes are
// best-effort and never fail a mutation.
func WithJournal(j *storage.Journal) Option {
	return func(c *Coordinator) { c.journal = j }
}

// WithMaintainer stamps the maintainer name into every saved snapshot.
func WithMaintainer(name string) Option {
	return func(c *Coordinator) { c.maintainer = name }
}

// WithDegradedHook registers a callback invoked whenever the
// degraded-sync state changes, e.g. to drive a metrics gauge.
func WithDegradedHook(fn func(bool)) Option {
	return func(c *Coordinator) { c.onDegraded = fn }
}

// New loads the vocabulary from the store and builds the coordinator.
// When no snapshot exists yet the default seed vocabulary is persisted
// first. A corrupt store is fatal and requires operator intervention.
func New(ctx context.Context, store *vocab.Store, mirror *vocab.Mirror, classifier *classify.Classifier, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		store:      store,
		mirror:     mirror,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(c)
	}

	v, err := store.Load(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		slog.Info("no vocabulary snapshot found, seeding defaults", "path", store.Path())
		v = vocab.Default()
		v.Maintainer = c.maintainer
		v.UpdatedAt = time.Now().UTC()
		if err := store.Save(ctx, v); err != nil {
			return nil, fmt.Errorf("failed to seed vocabulary: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	c.current = v
	c.refreshDerivedLocked()
	return c, nil
}

// Add inserts a word into a category, or overwrites its weight when the
// category already holds it. A word living in a different category is
// rejected; it must be deleted (or moved) first.
func (c *Coordinator) Add(ctx context.Context, cat model.CategoryTag, word string, weight float64) (model.Term, error) {
	word, err := validateMutation(cat, word, weight)
	if err != nil {
		return model.Term{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.current.Find(word); ok && existing.Category != cat {
		return model.Term{}, fmt.Errorf("%w: %q is in %s", common.ErrDuplicateWord, word, existing.Category)
	}

	next := c.current.Clone()
	next.Set(cat, word, weight)
	if err := c.commitLocked(ctx, next); err != nil {
		return model.Term{}, err
	}

	c.record(ctx, storage.OpAdd, cat, word, &weight)
	return model.Term{Category: cat, Word: word, Weight: weight}, nil
}

// Update overwrites the weight of a word already present in the category.
func (c *Coordinator) Update(ctx context.Context, cat model.CategoryTag, word string, weight float64) (model.Term, error) {
	word, err := validateMutation(cat, word, weight)
	if err != nil {
		return model.Term{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !contains(c.current.Terms(cat), word) {
		return model.Term{}, fmt.Errorf("%w: %q in %s", common.ErrNotFound, word, cat)
	}

	next := c.current.Clone()
	next.Set(cat, word, weight)
	if err := c.commitLocked(ctx, next); err != nil {
		return model.Term{}, err
	}

	c.record(ctx, storage.OpUpdate, cat, word, &weight)
	return model.Term{Category: cat, Word: word, Weight: weight}, nil
}

// Delete removes a word from a category.
func (c *Coordinator) Delete(ctx context.Context, cat model.CategoryTag, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return common.ErrInvalidWord
	}
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidCategory, cat)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current.Clone()
	if !next.Remove(cat, word) {
		return fmt.Errorf("%w: %q in %s", common.ErrNotFound, word, cat)
	}
	if err := c.commitLocked(ctx, next); err != nil {
		return err
	}

	c.record(ctx, storage.OpDelete, cat, word, nil)
	return nil
}

// Move relocates a word between categories in one committed mutation, so
// the one-category-per-word invariant holds at every observable instant.
func (c *Coordinator) Move(ctx context.Context, from, to model.CategoryTag, word string, weight float64) (model.Term, error) {
	word, err := validateMutation(to, word, weight)
	if err != nil {
		return model.Term{}, err
	}
	if !from.Valid() {
		return model.Term{}, fmt.Errorf("%w: %q", common.ErrInvalidCategory, from)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current.Clone()
	if !next.Remove(from, word) {
		return model.Term{}, fmt.Errorf("%w: %q in %s", common.ErrNotFound, word, from)
	}
	next.Set(to, word, weight)
	if err := c.commitLocked(ctx, next); err != nil {
		return model.Term{}, err
	}

	c.record(ctx, storage.OpMove, to, word, &weight)
	return model.Term{Category: to, Word: word, Weight: weight}, nil
}

// Import applies a batch of terms as one mutation. Every term is
// validated up front and the whole batch commits in a single durable
// write; any invalid or conflicting term rejects the entire batch.
func (c *Coordinator) Import(ctx context.Context, terms []model.Term) (int, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current.Clone()
	for i, t := range terms {
		word, err := validateMutation(t.Category, t.Word, t.Weight)
		if err != nil {
			return 0, fmt.Errorf("term %d: %w", i, err)
		}
		if existing, ok := next.Find(word); ok && existing.Category != t.Category {
			return 0, fmt.Errorf("term %d: %w: %q is in %s", i, common.ErrDuplicateWord, word, existing.Category)
		}
		next.Set(t.Category, word, t.Weight)
	}

	if err := c.commitLocked(ctx, next); err != nil {
		return 0, err
	}

	for _, t := range terms {
		weight := t.Weight
		c.record(ctx, storage.OpImport, t.Category, strings.TrimSpace(t.Word), &weight)
	}
	return len(terms), nil
}

// Resync reloads the vocabulary from the durable store and regenerates
// the mirror and the runtime cache. It repairs a degraded sync and picks
// up out-of-band edits to the snapshot file.
func (c *Coordinator) Resync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.store.Load(ctx)
	if errors.Is(err, common.ErrNotFound) {
		// Snapshot vanished from under us; re-persist what we hold.
		slog.Warn("vocabulary snapshot missing on resync, rewriting", "path", c.store.Path())
		if err := c.commitLocked(ctx, c.current.Clone()); err != nil {
			return err
		}
		c.record(ctx, storage.OpResync, "", "", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to reload vocabulary: %w", err)
	}

	c.current = v
	c.refreshDerivedLocked()
	c.record(ctx, storage.OpResync, "", "", nil)
	return nil
}

// Search returns terms whose word contains the query, case-insensitively,
// ordered by category precedence then insertion order.
func (c *Coordinator) Search(query string) []model.Term {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var results []model.Term
	for _, t := range c.current.All() {
		if strings.Contains(strings.ToLower(t.Word), needle) {
			results = append(results, t)
		}
	}
	return results
}

// CategoryStats summarizes the weight distribution of one category.
type CategoryStats struct {
	Count      int     `json:"count"`
	MinWeight  float64 `json:"min_weight"`
	MaxWeight  float64 `json:"max_weight"`
	MeanWeight float64 `json:"mean_weight"`
}

// Stats is a point-in-time summary of the vocabulary.
type Stats struct {
	UpdatedAt   time.Time                           `json:"updated_at"`
	PerCategory map[model.CategoryTag]CategoryStats `json:"per_category"`
	Maintainer  string                              `json:"maintainer,omitempty"`
	Total       int                                 `json:"total"`
	Degraded    bool                                `json:"degraded"`
}

// Stats reports per-category counts, the total count, and a weight
// distribution summary.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		UpdatedAt:   c.current.UpdatedAt,
		Maintainer:  c.current.Maintainer,
		PerCategory: make(map[model.CategoryTag]CategoryStats, len(model.Categories)),
		Degraded:    c.degraded,
	}
	for _, cat := range model.Categories {
		terms := c.current.Terms(cat)
		cs := CategoryStats{Count: len(terms)}
		if len(terms) > 0 {
			cs.MinWeight = terms[0].Weight
			cs.MaxWeight = terms[0].Weight
			var sum float64
			for _, t := range terms {
				sum += t.Weight
				if t.Weight < cs.MinWeight {
					cs.MinWeight = t.Weight
				}
				if t.Weight > cs.MaxWeight {
					cs.MaxWeight = t.Weight
				}
			}
			cs.MeanWeight = sum / float64(len(terms))
		}
		stats.PerCategory[cat] = cs
		stats.Total += cs.Count
	}
	return stats
}

// All returns the full vocabulary grouped by category.
func (c *Coordinator) All() map[model.CategoryTag][]model.Term {
	c.mu.Lock()
	defer c.mu.Unlock()

	grouped := make(map[model.CategoryTag][]model.Term, len(model.Categories))
	for _, cat := range model.Categories {
		grouped[cat] = c.current.Terms(cat)
	}
	return grouped
}

// Export returns a deep copy of the current vocabulary.
func (c *Coordinator) Export() *vocab.Vocabulary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// Degraded reports whether the mirror is out of step with the durable
// store.
func (c *Coordinator) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// commitLocked persists next and, only after the durable write succeeds,
// publishes it to the mirror and the classifier cache. Callers hold mu.
func (c *Coordinator) commitLocked(ctx context.Context, next *vocab.Vocabulary) error {
	next.UpdatedAt = time.Now().UTC()
	if c.maintainer != "" {
		next.Maintainer = c.maintainer
	}

	if err := c.store.Save(ctx, next); err != nil {
		// Nothing was committed; prior state stands.
		return err
	}

	c.current = next
	c.refreshDerivedLocked()
	return nil
}

// refreshDerivedLocked regenerates the mirror and rebuilds the classifier
// cache from the current vocabulary. The durable store is already
// correct at this point, so a mirror failure only degrades the sync.
func (c *Coordinator) refreshDerivedLocked() {
	degraded := false
	if err := c.mirror.Write(c.current); err != nil {
		slog.Warn("degraded sync: mirror regeneration failed",
			"path", c.mirror.Path(),
			"error", err)
		degraded = true
	}
	c.classifier.Reload(c.current)

	if c.degraded != degraded {
		c.degraded = degraded
		if c.onDegraded != nil {
			c.onDegraded(degraded)
		}
	}
}

// record appends to the mutation journal, best-effort.
func (c *Coordinator) record(ctx context.Context, op storage.Op, cat model.CategoryTag, word string, weight *float64) {
	if c.journal == nil {
		return
	}
	if _, err := c.journal.Record(ctx, op, cat, word, weight); err != nil {
		slog.Warn("failed to journal mutation", "op", op, "word", word, "error", err)
	}
}

// validateMutation normalizes the word and checks the mutation inputs.
func validateMutation(cat model.CategoryTag, word string, weight float64) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", common.ErrInvalidWord
	}
	if !cat.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidCategory, cat)
	}
	if !model.ValidWeight(weight) {
		return "", fmt.Errorf("%w: %v not in [%v, %v]", common.ErrInvalidWeight, weight, model.MinWeight, model.MaxWeight)
	}
	return word, nil
}

func contains(terms []model.Term, word string) bool {
	for _, t := range terms {
		if t.Word == word {
			return true
		}
	}
	return false
}
