package vocab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "keywords.json"))

	v := New()
	v.Maintainer = "ops"
	v.Set(model.CategoryCritical, "假貨", 2.0)
	v.Set(model.CategoryCritical, "詐騙", 1.8)
	v.Set(model.CategoryOpportunities, "必買", 1.6)

	require.NoError(t, store.Save(ctx, v))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ops", loaded.Maintainer)
	assert.Equal(t, 3, loaded.Count())

	term, ok := loaded.Find("假貨")
	require.True(t, ok)
	assert.Equal(t, model.CategoryCritical, term.Category)
	assert.InDelta(t, 2.0, term.Weight, 1e-9)
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStoreLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: `{{{`},
		{name: "unsupported version", content: `{"version": 99, "categories": {}}`},
		{name: "unknown category", content: `{"version": 1, "categories": {"BOGUS": []}}`},
		{
			name:    "weight out of range",
			content: `{"version": 1, "categories": {"CRITICAL": [{"word": "假貨", "weight": 9.0}]}}`,
		},
		{
			name:    "empty word",
			content: `{"version": 1, "categories": {"CRITICAL": [{"word": "", "weight": 1.0}]}}`,
		},
		{
			name: "word in two categories",
			content: `{"version": 1, "categories": {
				"CRITICAL": [{"word": "抄襲", "weight": 1.0}],
				"STRATEGIC": [{"word": "抄襲", "weight": 1.0}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keywords.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewStore(path).Load(context.Background())
			assert.ErrorIs(t, err, common.ErrCorruptStore)
		})
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "keywords.json"))

	v := New()
	v.Set(model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, store.Save(ctx, v))
	require.NoError(t, store.Save(ctx, v))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keywords.json", entries[0].Name())
}

func TestStoreSaveOverwritesAtomically(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "keywords.json"))

	first := New()
	first.Set(model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, store.Save(ctx, first))

	second := New()
	second.Set(model.CategoryStrategic, "踩雷", 1.6)
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Count())
	_, ok := loaded.Find("假貨")
	assert.False(t, ok, "old snapshot content must be fully replaced")
	_, ok = loaded.Find("踩雷")
	assert.True(t, ok)
}

func TestStoreCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "deeper", "keywords.json"))

	require.NoError(t, store.Save(ctx, New()))
	_, err := store.Load(ctx)
	assert.NoError(t, err)
}
