package model

// Weight bounds for vocabulary terms.
const (
	MinWeight = 0.5
	MaxWeight = 2.0
)

// Term is a weighted vocabulary entry. A word belongs to at most one
// category at a time; relocating it is an explicit move operation.
type Term struct {
	Category CategoryTag `json:"category"`
	Word     string      `json:"word"`
	Weight   float64     `json:"weight"`
}

// ValidWeight reports whether w is inside the allowed weight range.
func ValidWeight(w float64) bool {
	return w >= MinWeight && w <= MaxWeight
}
