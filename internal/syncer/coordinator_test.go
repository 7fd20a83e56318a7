package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/brandpulse/triage/internal/classify"
	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/brandpulse/triage/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCoordinator builds a coordinator over an empty vocabulary in a
// temp directory.
func newTestCoordinator(t *testing.T) (*Coordinator, *vocab.Store, *classify.Classifier) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store := vocab.NewStore(filepath.Join(dir, "keywords.json"))
	require.NoError(t, store.Save(ctx, vocab.New()))

	mirror := vocab.NewMirror(filepath.Join(dir, "keywords_gen.go"))
	classifier := classify.New(vocab.New())

	c, err := New(ctx, store, mirror, classifier)
	require.NoError(t, err)
	return c, store, classifier
}

func TestNewSeedsDefaultsWhenMissing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := vocab.NewStore(filepath.Join(dir, "keywords.json"))
	mirror := vocab.NewMirror(filepath.Join(dir, "keywords_gen.go"))
	classifier := classify.New(vocab.New())

	c, err := New(ctx, store, mirror, classifier)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Positive(t, stats.Total)

	// The seed was persisted, not just held in memory.
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Total, loaded.Count())

	// And the mirror was generated alongside.
	_, err = os.Stat(mirror.Path())
	assert.NoError(t, err)
}

func TestNewFailsOnCorruptStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := New(ctx, vocab.NewStore(path), vocab.NewMirror(filepath.Join(dir, "m.go")), classify.New(vocab.New()))
	assert.ErrorIs(t, err, common.ErrCorruptStore)
}

func TestAddRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCoordinator(t)

	weights := []float64{0.5, 0.75, 1.0, 1.5, 2.0}
	for i, w := range weights {
		word := fmt.Sprintf("詞彙%d", i)
		term, err := c.Add(ctx, model.CategoryOperational, word, w)
		require.NoError(t, err)
		assert.InDelta(t, w, term.Weight, 1e-9)
	}

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	for i, w := range weights {
		term, ok := loaded.Find(fmt.Sprintf("詞彙%d", i))
		require.True(t, ok)
		assert.InDelta(t, w, term.Weight, 1e-9, "weight must round-trip exactly")
	}
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	tests := []struct {
		name    string
		cat     model.CategoryTag
		word    string
		weight  float64
		wantErr error
	}{
		{name: "empty word", cat: model.CategoryCritical, word: "", weight: 1.0, wantErr: common.ErrInvalidWord},
		{name: "whitespace word", cat: model.CategoryCritical, word: "   ", weight: 1.0, wantErr: common.ErrInvalidWord},
		{name: "weight too low", cat: model.CategoryCritical, word: "假貨", weight: 0.4, wantErr: common.ErrInvalidWeight},
		{name: "weight too high", cat: model.CategoryCritical, word: "假貨", weight: 2.1, wantErr: common.ErrInvalidWeight},
		{name: "bad category", cat: model.CategoryTag("OTHER"), word: "假貨", weight: 1.0, wantErr: common.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Add(ctx, tt.cat, tt.word, tt.weight)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was persisted by the rejected mutations.
	assert.Zero(t, c.Stats().Total)
}

func TestAddTrimsWord(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	term, err := c.Add(ctx, model.CategoryCritical, "  假貨  ", 2.0)
	require.NoError(t, err)
	assert.Equal(t, "假貨", term.Word)
}

func TestAddRejectsWordInOtherCategory(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Add(ctx, model.CategoryCritical, "抄襲", 1.6)
	require.NoError(t, err)

	_, err = c.Add(ctx, model.CategoryStrategic, "抄襲", 1.0)
	assert.ErrorIs(t, err, common.ErrDuplicateWord)

	// Delete from the first category, then the add succeeds.
	require.NoError(t, c.Delete(ctx, model.CategoryCritical, "抄襲"))
	_, err = c.Add(ctx, model.CategoryStrategic, "抄襲", 1.0)
	assert.NoError(t, err)
}

func TestAddOverwritesWeightInSameCategory(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)
	_, err = c.Add(ctx, model.CategoryCritical, "假貨", 1.5)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Stats().Total)
	results := c.Search("假貨")
	require.Len(t, results, 1)
	assert.InDelta(t, 1.5, results[0].Weight, 1e-9)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Update(ctx, model.CategoryCritical, "假貨", 1.5)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)

	term, err := c.Update(ctx, model.CategoryCritical, "假貨", 1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, term.Weight, 1e-9)

	// Present in another category still counts as absent here.
	_, err = c.Update(ctx, model.CategoryStrategic, "假貨", 1.0)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	err := c.Delete(ctx, model.CategoryCritical, "假貨")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, model.CategoryCritical, "假貨"))
	assert.Zero(t, c.Stats().Total)
}

func TestDeleteAffectsClassification(t *testing.T) {
	ctx := context.Background()
	c, _, classifier := newTestCoordinator(t)

	_, err := c.Add(ctx, model.CategoryStrategic, "踩雷", 1.6)
	require.NoError(t, err)

	before := classifier.Classify("上次踩雷了")
	require.Equal(t, model.CategoryStrategic, before.Category)

	require.NoError(t, c.Delete(ctx, model.CategoryStrategic, "踩雷"))

	after := classifier.Classify("上次踩雷了")
	assert.Equal(t, model.CategoryNone, after.Category)
	assert.Less(t, after.Score, before.Score)
}

func TestMutationVisibleToClassifierImmediately(t *testing.T) {
	ctx := context.Background()
	c, _, classifier := newTestCoordinator(t)

	result := classifier.Classify("收到假貨")
	require.Equal(t, model.CategoryNone, result.Category)

	_, err := c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)

	result = classifier.Classify("收到假貨")
	assert.Equal(t, model.CategoryCritical, result.Category)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Move(ctx, model.CategoryCritical, model.CategoryStrategic, "抄襲", 1.0)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.Add(ctx, model.CategoryCritical, "抄襲", 1.6)
	require.NoError(t, err)

	term, err := c.Move(ctx, model.CategoryCritical, model.CategoryStrategic, "抄襲", 1.0)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryStrategic, term.Category)
	assert.InDelta(t, 1.0, term.Weight, 1e-9)

	grouped := c.All()
	assert.Empty(t, grouped[model.CategoryCritical])
	require.Len(t, grouped[model.CategoryStrategic], 1)
}

func TestImportAtomicity(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)

	// Batch containing a conflicting word rejects entirely.
	batch := []model.Term{
		{Category: model.CategoryOperational, Word: "破損", Weight: 1.3},
		{Category: model.CategoryStrategic, Word: "假貨", Weight: 1.0},
	}
	_, err = c.Import(ctx, batch)
	assert.ErrorIs(t, err, common.ErrDuplicateWord)
	assert.Equal(t, 1, c.Stats().Total, "rejected import must not partially apply")

	// Valid batch commits in one mutation.
	batch = []model.Term{
		{Category: model.CategoryOperational, Word: "破損", Weight: 1.3},
		{Category: model.CategoryOperational, Word: "瑕疵", Weight: 1.2},
	}
	count, err := c.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, c.Stats().Total)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Add(ctx, model.CategoryOperational, "品質差", 1.4)
	require.NoError(t, err)
	_, err = c.Add(ctx, model.CategoryOperational, "材質差", 1.3)
	require.NoError(t, err)
	_, err = c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)

	results := c.Search("質差")
	require.Len(t, results, 2)
	assert.Equal(t, "品質差", results[0].Word)
	assert.Equal(t, "材質差", results[1].Word)

	assert.Empty(t, c.Search("沒有這個"))
	assert.Empty(t, c.Search("  "))

	// Category precedence orders cross-category hits.
	_, err = c.Add(ctx, model.CategoryStrategic, "品質黑名單", 1.5)
	require.NoError(t, err)
	results = c.Search("品質")
	require.Len(t, results, 2)
	assert.Equal(t, model.CategoryStrategic, results[0].Category)
	assert.Equal(t, model.CategoryOperational, results[1].Category)
}

func TestStatsTotalsMatch(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCoordinator(t)

	_, err := c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)
	_, err = c.Add(ctx, model.CategoryCritical, "詐騙", 1.8)
	require.NoError(t, err)
	_, err = c.Add(ctx, model.CategoryOpportunities, "必買", 1.6)
	require.NoError(t, err)

	stats := c.Stats()
	sum := 0
	for _, cs := range stats.PerCategory {
		sum += cs.Count
	}
	assert.Equal(t, stats.Total, sum)
	assert.Equal(t, 3, stats.Total)

	critical := stats.PerCategory[model.CategoryCritical]
	assert.Equal(t, 2, critical.Count)
	assert.InDelta(t, 1.8, critical.MinWeight, 1e-9)
	assert.InDelta(t, 2.0, critical.MaxWeight, 1e-9)
	assert.InDelta(t, 1.9, critical.MeanWeight, 1e-9)
}

func TestConcurrentDisjointMutations(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCoordinator(t)

	const writers = 8
	const perWriter = 10

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			cat := model.Categories[w%len(model.Categories)]
			for i := 0; i < perWriter; i++ {
				word := fmt.Sprintf("writer%d-word%d", w, i)
				_, err := c.Add(ctx, cat, word, 1.0)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	// Every mutation landed; none interleaved into a lost update.
	stats := c.Stats()
	assert.Equal(t, writers*perWriter, stats.Total)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, loaded.Count())
	require.NoError(t, loaded.Validate())
}

func TestDegradedSyncOnMirrorFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := vocab.NewStore(filepath.Join(dir, "keywords.json"))
	require.NoError(t, store.Save(ctx, vocab.New()))

	// A non-empty directory at the mirror path makes the rename fail.
	mirrorPath := filepath.Join(dir, "mirror")
	require.NoError(t, os.MkdirAll(filepath.Join(mirrorPath, "occupied"), 0750))

	var hookState bool
	classifier := classify.New(vocab.New())
	c, err := New(ctx, store, vocab.NewMirror(mirrorPath), classifier,
		WithDegradedHook(func(degraded bool) { hookState = degraded }))
	require.NoError(t, err)
	assert.True(t, c.Degraded())
	assert.True(t, hookState)

	// The durable write still committed and the cache still rebuilt.
	term, err := c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)
	assert.Equal(t, "假貨", term.Word)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	_, ok := loaded.Find("假貨")
	assert.True(t, ok)

	result := classifier.Classify("假貨")
	assert.Equal(t, model.CategoryCritical, result.Category)
}

func TestResyncPicksUpExternalEdit(t *testing.T) {
	ctx := context.Background()
	c, store, classifier := newTestCoordinator(t)

	// Another process rewrites the snapshot out-of-band.
	external := vocab.New()
	external.Set(model.CategoryOpportunities, "團購", 1.3)
	require.NoError(t, store.Save(ctx, external))

	require.Equal(t, model.CategoryNone, classifier.Classify("開團購了").Category)

	require.NoError(t, c.Resync(ctx))
	assert.Equal(t, model.CategoryOpportunities, classifier.Classify("開團購了").Category)
	assert.Equal(t, 1, c.Stats().Total)
}

func TestMaintainerStamped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := vocab.NewStore(filepath.Join(dir, "keywords.json"))
	require.NoError(t, store.Save(ctx, vocab.New()))

	c, err := New(ctx, store, vocab.NewMirror(filepath.Join(dir, "m.go")), classify.New(vocab.New()),
		WithMaintainer("sylvia"))
	require.NoError(t, err)

	_, err = c.Add(ctx, model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sylvia", loaded.Maintainer)
	assert.False(t, loaded.UpdatedAt.IsZero())
}
