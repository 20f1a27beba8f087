package file

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vocapsule/internal/models"
	"vocapsule/internal/repository"
)

func (s *Store) Users() repository.UserRepository   { return &userRepo{s} }
func (s *Store) Vocab() repository.VocabRepository  { return &vocabRepo{s} }
func (s *Store) Quizzes() repository.QuizRepository { return &quizRepo{s} }
func (s *Store) Scores() repository.ScoreRepository { return &scoreRepo{s} }

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, email, passwordHash string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []userRec
	if err := r.s.readJSON(r.s.usersPath(), &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return nil, fmt.Errorf("email already exists: %s", email)
		}
	}

	var maxID int64
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	rec := userRec{ID: maxID + 1, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	users = append(users, rec)
	if err := r.s.writeJSON(r.s.usersPath(), users); err != nil {
		return nil, err
	}
	return userFromRec(rec), nil
}

func (r *userRepo) Get(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []userRec
	if err := r.s.readJSON(r.s.usersPath(), &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return userFromRec(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []userRec
	if err := r.s.readJSON(r.s.usersPath(), &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return userFromRec(u), nil
		}
	}
	return nil, nil
}

func userFromRec(u userRec) *models.User {
	return &models.User{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}
}

type vocabRepo struct{ s *Store }

func (r *vocabRepo) Insert(_ context.Context, entry models.VocabEntry) (*models.VocabEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var recs []vocabRec
	if err := r.s.readJSON(r.s.vocabPath(entry.UserID), &recs); err != nil {
		return nil, err
	}
	// Mirror the relational UNIQUE(user_id, date) constraint.
	for _, rec := range recs {
		if rec.Date == entry.Date {
			return nil, fmt.Errorf("vocab entry already exists for %s", entry.Date)
		}
	}

	var maxID int64
	for _, rec := range recs {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	entry.ID = maxID + 1
	recs = append(recs, vocabRec{
		ID:          entry.ID,
		UserID:      entry.UserID,
		DayNo:       entry.DayNo,
		Date:        entry.Date,
		Word:        entry.Word,
		Translation: models.JoinTranslations(entry.Translations),
	})
	if err := r.s.writeJSON(r.s.vocabPath(entry.UserID), recs); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *vocabRepo) Get(_ context.Context, id, userID int64) (*models.VocabEntry, error) {
	recs, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return entryFromRec(rec), nil
		}
	}
	return nil, nil
}

func (r *vocabRepo) GetByDate(_ context.Context, userID int64, date string) (*models.VocabEntry, error) {
	recs, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.Date == date {
			return entryFromRec(rec), nil
		}
	}
	return nil, nil
}

func (r *vocabRepo) List(_ context.Context, userID int64) ([]models.VocabEntry, error) {
	recs, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].DayNo < recs[j].DayNo })

	var entries []models.VocabEntry
	for _, rec := range recs {
		entries = append(entries, *entryFromRec(rec))
	}
	return entries, nil
}

func (r *vocabRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]models.VocabEntry, error) {
	entries, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].DayNo > entries[j].DayNo })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *vocabRepo) MaxDayNo(_ context.Context, userID int64) (int, error) {
	recs, err := r.load(userID)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, rec := range recs {
		if rec.DayNo > max {
			max = rec.DayNo
		}
	}
	return max, nil
}

func (r *vocabRepo) load(userID int64) ([]vocabRec, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var recs []vocabRec
	if err := r.s.readJSON(r.s.vocabPath(userID), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func entryFromRec(rec vocabRec) *models.VocabEntry {
	return &models.VocabEntry{
		ID:           rec.ID,
		UserID:       rec.UserID,
		DayNo:        rec.DayNo,
		Date:         rec.Date,
		Word:         rec.Word,
		Translations: models.SplitTranslations(rec.Translation),
	}
}

type quizRepo struct{ s *Store }

func (r *quizRepo) CreateSession(_ context.Context, session models.QuizSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var qf quizFile
	if err := r.s.readJSON(r.s.quizPath(session.UserID), &qf); err != nil {
		return err
	}
	var maxID int64
	for _, s := range qf.Sessions {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	qf.Sessions = append(qf.Sessions, sessionRec{
		ID:        maxID + 1,
		UserID:    session.UserID,
		QuizID:    session.QuizID,
		DayNo:     session.DayNo,
		Finished:  false,
		CreatedAt: time.Now().UTC(),
	})
	return r.s.writeJSON(r.s.quizPath(session.UserID), qf)
}

func (r *quizRepo) GetSession(_ context.Context, userID int64, quizID string) (*models.QuizSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var qf quizFile
	if err := r.s.readJSON(r.s.quizPath(userID), &qf); err != nil {
		return nil, err
	}
	for _, rec := range qf.Sessions {
		if rec.QuizID == quizID {
			return &models.QuizSession{
				ID:        rec.ID,
				UserID:    rec.UserID,
				QuizID:    rec.QuizID,
				DayNo:     rec.DayNo,
				Finished:  rec.Finished,
				CreatedAt: rec.CreatedAt,
			}, nil
		}
	}
	return nil, nil
}

func (r *quizRepo) InsertAnswer(_ context.Context, answer models.AnswerRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var qf quizFile
	if err := r.s.readJSON(r.s.quizPath(answer.UserID), &qf); err != nil {
		return err
	}
	var maxID int64
	for _, a := range qf.Answers {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	qf.Answers = append(qf.Answers, answerRec{
		ID:         maxID + 1,
		UserID:     answer.UserID,
		QuizID:     answer.QuizID,
		WordID:     answer.WordID,
		UserAnswer: answer.UserAnswer,
		Correct:    answer.Correct,
	})
	return r.s.writeJSON(r.s.quizPath(answer.UserID), qf)
}

func (r *quizRepo) ListAnswers(_ context.Context, userID int64, quizID string) ([]models.AnswerRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var qf quizFile
	if err := r.s.readJSON(r.s.quizPath(userID), &qf); err != nil {
		return nil, err
	}
	var answers []models.AnswerRecord
	for _, rec := range qf.Answers {
		if rec.QuizID != quizID {
			continue
		}
		answers = append(answers, models.AnswerRecord{
			ID:         rec.ID,
			UserID:     rec.UserID,
			QuizID:     rec.QuizID,
			WordID:     rec.WordID,
			UserAnswer: rec.UserAnswer,
			Correct:    rec.Correct,
		})
	}
	return answers, nil
}

func (r *quizRepo) Finish(_ context.Context, userID int64, quizID string, score models.ScoreRecord) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var qf quizFile
	if err := r.s.readJSON(r.s.quizPath(userID), &qf); err != nil {
		return false, err
	}
	idx := -1
	for i, rec := range qf.Sessions {
		if rec.QuizID == quizID {
			idx = i
			break
		}
	}
	if idx < 0 || qf.Sessions[idx].Finished {
		return false, nil
	}

	// Mark finished before appending the score: a failure in between loses
	// one score but can never double-count it on retry.
	qf.Sessions[idx].Finished = true
	if err := r.s.writeJSON(r.s.quizPath(userID), qf); err != nil {
		return false, err
	}

	var scores []scoreRec
	if err := r.s.readJSON(r.s.scoresPath(userID), &scores); err != nil {
		return false, err
	}
	var maxID int64
	for _, sc := range scores {
		if sc.ID > maxID {
			maxID = sc.ID
		}
	}
	scores = append(scores, scoreRec{
		ID:       maxID + 1,
		UserID:   score.UserID,
		QuizID:   score.QuizID,
		DayNo:    score.DayNo,
		Total:    score.Total,
		Correct:  score.Correct,
		Accuracy: score.Accuracy,
	})
	if err := r.s.writeJSON(r.s.scoresPath(userID), scores); err != nil {
		return false, err
	}
	return true, nil
}

type scoreRepo struct{ s *Store }

func (r *scoreRepo) GetByQuiz(_ context.Context, userID int64, quizID string) (*models.ScoreRecord, error) {
	recs, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.QuizID == quizID {
			return scoreFromRec(rec), nil
		}
	}
	return nil, nil
}

func (r *scoreRepo) HasDay(_ context.Context, userID int64, dayNo int) (bool, error) {
	recs, err := r.load(userID)
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		if rec.DayNo == dayNo {
			return true, nil
		}
	}
	return false, nil
}

func (r *scoreRepo) Latest(_ context.Context, userID int64) (*models.ScoreRecord, error) {
	recs, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	var best *scoreRec
	for i := range recs {
		if best == nil || recs[i].DayNo > best.DayNo {
			best = &recs[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	return scoreFromRec(*best), nil
}

func (r *scoreRepo) List(_ context.Context, userID int64) ([]models.ScoreRecord, error) {
	recs, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].DayNo < recs[j].DayNo })

	var scores []models.ScoreRecord
	for _, rec := range recs {
		scores = append(scores, *scoreFromRec(rec))
	}
	return scores, nil
}

func (r *scoreRepo) load(userID int64) ([]scoreRec, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var recs []scoreRec
	if err := r.s.readJSON(r.s.scoresPath(userID), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func scoreFromRec(rec scoreRec) *models.ScoreRecord {
	return &models.ScoreRecord{
		ID:       rec.ID,
		UserID:   rec.UserID,
		QuizID:   rec.QuizID,
		DayNo:    rec.DayNo,
		Total:    rec.Total,
		Correct:  rec.Correct,
		Accuracy: rec.Accuracy,
	}
}
