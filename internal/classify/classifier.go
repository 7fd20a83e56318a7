// Package classify scores free text against the weighted vocabulary.
package classify

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/brandpulse/triage/internal/model"
	"github.com/brandpulse/triage/internal/vocab"
)

// confidenceSmoothing keeps the confidence ratio defined when only one
// category matches and damps overconfidence on tiny scores.
const confidenceSmoothing = 0.05

// snapshotTerm is a vocabulary term prepared for matching.
type snapshotTerm struct {
	match   string // normalized form used for substring search
	display string // original word as stored
	weight  float64
}

// Snapshot is an immutable, match-ready view of the vocabulary. Readers
// score against whichever snapshot was current when their call started;
// a rebuild never mutates a published snapshot.
type Snapshot struct {
	builtAt time.Time
	terms   map[model.CategoryTag][]snapshotTerm
}

// NewSnapshot builds a snapshot from a vocabulary value.
func NewSnapshot(v *vocab.Vocabulary) *Snapshot {
	snap := &Snapshot{
		builtAt: time.Now(),
		terms:   make(map[model.CategoryTag][]snapshotTerm, len(model.Categories)),
	}
	for _, cat := range model.Categories {
		terms := v.Terms(cat)
		prepared := make([]snapshotTerm, 0, len(terms))
		for _, t := range terms {
			match := Normalize(t.Word)
			if match == "" {
				continue
			}
			prepared = append(prepared, snapshotTerm{
				match:   match,
				display: t.Word,
				weight:  t.Weight,
			})
		}
		snap.terms[cat] = prepared
	}
	return snap
}

// BuiltAt reports when the snapshot was constructed.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// TermCount returns the number of matchable terms in the snapshot.
func (s *Snapshot) TermCount() int {
	total := 0
	for _, terms := range s.terms {
		total += len(terms)
	}
	return total
}

// Classifier scores text against an atomically swappable vocabulary
// snapshot. Classify is safe for unlimited concurrent callers; Reload
// publishes a fully built snapshot in one atomic swap.
type Classifier struct {
	snap atomic.Pointer[Snapshot]
}

// New creates a classifier seeded with the given vocabulary.
func New(v *vocab.Vocabulary) *Classifier {
	c := &Classifier{}
	c.Reload(v)
	return c
}

// Reload rebuilds the snapshot from the vocabulary and swaps it in.
// In-flight Classify calls keep the snapshot they started with.
func (c *Classifier) Reload(v *vocab.Vocabulary) {
	c.snap.Store(NewSnapshot(v))
}

// Snapshot returns the currently published snapshot.
func (c *Classifier) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Classify scores the text against every category and returns the
// winner. Each term counts at most once per call no matter how often it
// occurs in the text. Ties break by category precedence, so crisis
// signals outrank opportunity signals. Empty or unmatched input yields
// CategoryNone with zero score and confidence.
func (c *Classifier) Classify(text string) model.ClassificationResult {
	none := model.ClassificationResult{Category: model.CategoryNone}

	normalized := Normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return none
	}

	snap := c.snap.Load()

	var (
		best       model.CategoryTag
		bestScore  float64
		bestTerms  []model.TermMatch
		second     float64
	)
	for _, cat := range model.Categories {
		var score float64
		var matched []model.TermMatch
		for _, t := range snap.terms[cat] {
			if strings.Contains(normalized, t.match) {
				score += t.weight
				matched = append(matched, model.TermMatch{Word: t.display, Weight: t.weight})
			}
		}
		// Strictly-greater keeps the earlier (higher precedence) category
		// on a tie.
		if score > bestScore {
			second = bestScore
			best = cat
			bestScore = score
			bestTerms = matched
		} else if score > second {
			second = score
		}
	}

	if bestScore <= 0 {
		return none
	}

	confidence := bestScore / (bestScore + second + confidenceSmoothing)
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return model.ClassificationResult{
		Category:   best,
		Matched:    bestTerms,
		Score:      bestScore,
		Confidence: confidence,
	}
}
