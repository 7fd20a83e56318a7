package model

// TermMatch records a single vocabulary hit during classification.
type TermMatch struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// ClassificationResult is the outcome of scoring one piece of text.
// It is produced fresh per call and never persisted by the engine.
type ClassificationResult struct {
	Category   CategoryTag `json:"category"`
	Matched    []TermMatch `json:"matched_terms"`
	Score      float64     `json:"score"`
	Confidence float64     `json:"confidence"`
}
