package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/brandpulse/triage/internal/priority"
	"github.com/brandpulse/triage/internal/storage"
)

// mutationRequest is the body shared by the add, update, delete, and move
// endpoints.
type mutationRequest struct {
	Category     string   `json:"category"`
	FromCategory string   `json:"from_category"`
	ToCategory   string   `json:"to_category"`
	Word         string   `json:"word"`
	Weight       *float64 `json:"weight"`
}

type classifyRequest struct {
	Text     string `json:"text"`
	Polarity string `json:"polarity"`
}

type classifyResponse struct {
	model.ClassificationResult
	Priority int `json:"priority"`
}

func (s *Server) handleAll(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coordinator.All())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query parameter q is required"))
		return
	}

	results := s.coordinator.Search(query)
	grouped := make(map[model.CategoryTag][]model.Term, len(model.Categories))
	for _, t := range results {
		grouped[t.Category] = append(grouped[t.Category], t)
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coordinator.Stats())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	req, cat, ok := s.decodeMutation(w, r, true)
	if !ok {
		return
	}

	term, err := s.coordinator.Add(r.Context(), cat, req.Word, *req.Weight)
	s.finishMutation(storage.OpAdd, err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, term)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, cat, ok := s.decodeMutation(w, r, true)
	if !ok {
		return
	}

	term, err := s.coordinator.Update(r.Context(), cat, req.Word, *req.Weight)
	s.finishMutation(storage.OpUpdate, err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, term)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, cat, ok := s.decodeMutation(w, r, false)
	if !ok {
		return
	}

	err := s.coordinator.Delete(r.Context(), cat, req.Word)
	s.finishMutation(storage.OpDelete, err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"category": string(cat),
		"word":     req.Word,
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	from, ok := model.ParseCategory(req.FromCategory)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", common.ErrInvalidCategory, req.FromCategory))
		return
	}
	to, ok := model.ParseCategory(req.ToCategory)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", common.ErrInvalidCategory, req.ToCategory))
		return
	}
	if req.Weight == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("weight is required"))
		return
	}

	term, err := s.coordinator.Move(r.Context(), from, to, req.Word, *req.Weight)
	s.finishMutation(storage.OpMove, err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, term)
}

func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	err := s.coordinator.Resync(r.Context())
	s.finishMutation(storage.OpResync, err)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.coordinator.Stats())
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	// Polarity defaults to neutral when the caller has no sentiment signal.
	if req.Polarity == "" {
		req.Polarity = string(model.PolarityNeutral)
	}
	polarity, ok := model.ParsePolarity(req.Polarity)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", common.ErrInvalidPolarity, req.Polarity))
		return
	}

	result := s.classifier.Classify(req.Text)
	rank, err := priority.Score(result.Category, polarity)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	s.metrics.ClassificationsTotal.WithLabelValues(string(result.Category)).Inc()
	s.metrics.ClassifyConfidence.Observe(result.Confidence)

	writeJSON(w, http.StatusOK, classifyResponse{
		ClassificationResult: result,
		Priority:             rank,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	if s.coordinator.Degraded() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// decodeMutation parses a mutation body and its category, writing the
// error response itself on failure.
func (s *Server) decodeMutation(w http.ResponseWriter, r *http.Request, needWeight bool) (mutationRequest, model.CategoryTag, bool) {
	var req mutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return req, "", false
	}

	cat, ok := model.ParseCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", common.ErrInvalidCategory, req.Category))
		return req, "", false
	}
	if needWeight && req.Weight == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("weight is required"))
		return req, "", false
	}
	return req, cat, true
}

// finishMutation records the mutation metric and refreshes gauges.
func (s *Server) finishMutation(op storage.Op, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.MutationsTotal.WithLabelValues(string(op), status).Inc()
	s.refreshGauges()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
