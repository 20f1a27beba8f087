package api

import (
	"net/http"
	"strconv"

	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

type vocabEntryResponse struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	DayNo       int      `json:"day_no"`
	Word        string   `json:"word"`
	Translation []string `json:"translation"`
	Existing    bool     `json:"existing"`
}

func (s *Server) handleVocabToday(w http.ResponseWriter, r *http.Request) {
	entry, existing, err := s.VocabService.AssignToday(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vocabEntryResponse{
		ID:          entry.ID,
		Date:        entry.Date,
		DayNo:       entry.DayNo,
		Word:        entry.Word,
		Translation: entry.Translations,
		Existing:    existing,
	})
}

func (s *Server) handleVocabList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.VocabService.List(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": itemsOrEmpty(entries)})
}

func (s *Server) handleVocabRandom(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.VocabService.Recent(r.Context(), userFromContext(r.Context()), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": itemsOrEmpty(entries)})
}

func (s *Server) handleVocabReset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	if err := s.VocabService.Reset(r.Context(), userID); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("user data reset: user_id=%d", userID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "reset done"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.VocabService.Export(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(export))
}

// itemsOrEmpty keeps "items" a JSON array even when there are no entries.
func itemsOrEmpty(entries []models.VocabEntry) []models.VocabEntry {
	if entries == nil {
		return []models.VocabEntry{}
	}
	return entries
}
