package vocab

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brandpulse/triage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	v := New()
	v.Maintainer = "ops"
	v.UpdatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v.Set(model.CategoryCritical, "假貨", 2.0)
	v.Set(model.CategoryCritical, "詐騙", 1.75)
	v.Set(model.CategoryOpportunities, "必買", 1.6)

	src := Render(v)

	assert.Contains(t, src, "Code generated by triage keywords sync; DO NOT EDIT.")
	assert.Contains(t, src, "package keywords")
	assert.Contains(t, src, "Last updated: 2026-08-01T12:00:00Z")
	assert.Contains(t, src, "Maintainer: ops")
	assert.Contains(t, src, `var CriticalKeywords = map[string]float64{`)
	assert.Contains(t, src, "\t\"假貨\": 2.0,\n")
	assert.Contains(t, src, "\t\"詐騙\": 1.75,\n")
	assert.Contains(t, src, `var OpportunitiesKeywords = map[string]float64{`)
	assert.Contains(t, src, "\t\"必買\": 1.6,\n")
	// Empty categories still get their variable so consumers always link.
	assert.Contains(t, src, `var StrategicKeywords = map[string]float64{`)
	assert.Contains(t, src, `var OperationalKeywords = map[string]float64{`)
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		weight float64
		want   string
	}{
		{weight: 1.0, want: "1.0"},
		{weight: 2.0, want: "2.0"},
		{weight: 0.5, want: "0.5"},
		{weight: 1.75, want: "1.75"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatWeight(tt.weight))
	}
}

func TestMirrorWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords_gen.go")
	mirror := NewMirror(path)

	v := New()
	v.Set(model.CategoryCritical, "假貨", 2.0)
	require.NoError(t, mirror.Write(v))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Render(v), string(data))

	// Rewriting replaces the file in place.
	v.Set(model.CategoryCritical, "詐騙", 1.8)
	require.NoError(t, mirror.Write(v))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "詐騙")
}
