// Package vocab implements the durable vocabulary store, its in-memory
// value type, and the generated configuration mirror.
package vocab

import (
	"fmt"
	"strings"
	"time"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
)

// Vocabulary is the complete set of weighted terms, grouped by category.
// Terms keep their insertion order within a category so that search,
// stats, and the generated mirror stay deterministic. Vocabulary values
// are not safe for concurrent mutation; the sync coordinator owns the
// authoritative copy and hands immutable snapshots to readers.
type Vocabulary struct {
	UpdatedAt  time.Time
	Maintainer string
	terms      map[model.CategoryTag][]model.Term
}

// New returns an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{
		terms: make(map[model.CategoryTag][]model.Term, len(model.Categories)),
	}
}

// Clone returns a deep copy of the vocabulary.
func (v *Vocabulary) Clone() *Vocabulary {
	c := &Vocabulary{
		UpdatedAt:  v.UpdatedAt,
		Maintainer: v.Maintainer,
		terms:      make(map[model.CategoryTag][]model.Term, len(v.terms)),
	}
	for cat, terms := range v.terms {
		copied := make([]model.Term, len(terms))
		copy(copied, terms)
		c.terms[cat] = copied
	}
	return c
}

// Terms returns the terms of one category in insertion order.
// The returned slice is a copy.
func (v *Vocabulary) Terms(cat model.CategoryTag) []model.Term {
	terms := v.terms[cat]
	if len(terms) == 0 {
		return nil
	}
	copied := make([]model.Term, len(terms))
	copy(copied, terms)
	return copied
}

// All returns every term, ordered by category precedence then insertion.
func (v *Vocabulary) All() []model.Term {
	all := make([]model.Term, 0, v.Count())
	for _, cat := range model.Categories {
		all = append(all, v.terms[cat]...)
	}
	return all
}

// Find locates a word anywhere in the vocabulary.
func (v *Vocabulary) Find(word string) (model.Term, bool) {
	for _, cat := range model.Categories {
		for _, t := range v.terms[cat] {
			if t.Word == word {
				return t, true
			}
		}
	}
	return model.Term{}, false
}

// Set inserts the word into the category or overwrites its weight if the
// category already holds it. It reports whether an existing entry was
// overwritten. Cross-category uniqueness is the caller's responsibility.
func (v *Vocabulary) Set(cat model.CategoryTag, word string, weight float64) bool {
	for i, t := range v.terms[cat] {
		if t.Word == word {
			v.terms[cat][i].Weight = weight
			return true
		}
	}
	v.terms[cat] = append(v.terms[cat], model.Term{Category: cat, Word: word, Weight: weight})
	return false
}

// Remove deletes the word from the category, reporting whether it existed.
func (v *Vocabulary) Remove(cat model.CategoryTag, word string) bool {
	terms := v.terms[cat]
	for i, t := range terms {
		if t.Word == word {
			v.terms[cat] = append(terms[:i], terms[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the total number of terms across all categories.
func (v *Vocabulary) Count() int {
	total := 0
	for _, terms := range v.terms {
		total += len(terms)
	}
	return total
}

// CountBy returns the number of terms in one category.
func (v *Vocabulary) CountBy(cat model.CategoryTag) int {
	return len(v.terms[cat])
}

// Validate checks the vocabulary invariants: non-empty trimmed words,
// weights inside the allowed range, and every word in at most one
// category.
func (v *Vocabulary) Validate() error {
	seen := make(map[string]model.CategoryTag, v.Count())
	for _, cat := range model.Categories {
		for _, t := range v.terms[cat] {
			if strings.TrimSpace(t.Word) == "" || t.Word != strings.TrimSpace(t.Word) {
				return fmt.Errorf("%w: category %s", common.ErrInvalidWord, cat)
			}
			if !model.ValidWeight(t.Weight) {
				return fmt.Errorf("%w: %q has weight %v", common.ErrInvalidWeight, t.Word, t.Weight)
			}
			if prev, dup := seen[t.Word]; dup {
				return fmt.Errorf("%w: %q in both %s and %s", common.ErrDuplicateWord, t.Word, prev, cat)
			}
			seen[t.Word] = cat
		}
	}
	return nil
}
