package api

import (
	"net/http"
	"strconv"

	"vocapsule/internal/errors"
	"vocapsule/internal/models"
)

func (s *Server) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	shuffle := true
	switch q.Get("shuffle") {
	case "0", "false", "False":
		shuffle = false
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	start, err := s.QuizService.Start(r.Context(), userFromContext(r.Context()), shuffle, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if start.Items == nil {
		start.Items = []models.QuizItem{}
	}
	writeJSON(w, http.StatusOK, start)
}

type answerRequest struct {
	QuizID string `validate:"required"`
	WordID int64  `validate:"required,gt=0"`
	Answer string
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	wordID, _ := strconv.ParseInt(r.FormValue("word_id"), 10, 64)
	req := answerRequest{
		QuizID: r.FormValue("quiz_id"),
		WordID: wordID,
		Answer: r.FormValue("answer"),
	}
	if err := validateStruct(&req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuizService.SubmitAnswer(r.Context(), userFromContext(r.Context()), req.QuizID, req.WordID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizFinish(w http.ResponseWriter, r *http.Request) {
	quizID := r.FormValue("quiz_id")
	if quizID == "" {
		handleError(w, r, errors.NewValidationError("quiz_id", "required"))
		return
	}

	result, err := s.QuizService.Finish(r.Context(), userFromContext(r.Context()), quizID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := map[string]any{
		"ok":       true,
		"total":    result.Total,
		"correct":  result.Correct,
		"accuracy": result.Accuracy,
	}
	if result.AlreadyFinished {
		resp["message"] = "already finished"
	}
	writeJSON(w, http.StatusOK, resp)
}
