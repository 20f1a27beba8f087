package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"vocapsule/internal/models"
	"vocapsule/internal/repository"
	"vocapsule/internal/repository/sqlite"
	"vocapsule/internal/testutil"
)

type ScoreRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	store repository.Store
}

func (s *ScoreRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewStore(s.db)
}

func (s *ScoreRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ScoreRepositorySuite) seed(userID int64, quizID string, dayNo int, accuracy float64) {
	ctx := context.Background()
	err := s.store.Quizzes().CreateSession(ctx, models.QuizSession{UserID: userID, QuizID: quizID, DayNo: dayNo})
	s.Require().NoError(err)
	finished, err := s.store.Quizzes().Finish(ctx, userID, quizID, models.ScoreRecord{
		UserID: userID, QuizID: quizID, DayNo: dayNo, Total: 4, Correct: 3, Accuracy: accuracy,
	})
	s.Require().NoError(err)
	s.Require().True(finished)
}

func (s *ScoreRepositorySuite) TestGetByQuiz() {
	ctx := context.Background()
	user, err := s.store.Users().Create(ctx, "s@example.com", "hash")
	s.Require().NoError(err)

	s.seed(user.ID, "q1", 1, 50.0)

	score, err := s.store.Scores().GetByQuiz(ctx, user.ID, "q1")
	s.Require().NoError(err)
	s.Require().NotNil(score)
	s.Equal(50.0, score.Accuracy)

	missing, err := s.store.Scores().GetByQuiz(ctx, user.ID, "q9")
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *ScoreRepositorySuite) TestHasDayAndLatest() {
	ctx := context.Background()
	user, err := s.store.Users().Create(ctx, "s@example.com", "hash")
	s.Require().NoError(err)

	s.seed(user.ID, "q1", 1, 100.0)
	s.seed(user.ID, "q3", 3, 66.67)

	has, err := s.store.Scores().HasDay(ctx, user.ID, 1)
	s.Require().NoError(err)
	s.True(has)

	has, err = s.store.Scores().HasDay(ctx, user.ID, 2)
	s.Require().NoError(err)
	s.False(has)

	latest, err := s.store.Scores().Latest(ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Equal(3, latest.DayNo)
	s.Equal(66.67, latest.Accuracy)
}

func (s *ScoreRepositorySuite) TestLatestEmpty() {
	ctx := context.Background()
	user, err := s.store.Users().Create(ctx, "s@example.com", "hash")
	s.Require().NoError(err)

	latest, err := s.store.Scores().Latest(ctx, user.ID)
	s.Require().NoError(err)
	s.Nil(latest)
}

func (s *ScoreRepositorySuite) TestResetUserClearsEverything() {
	ctx := context.Background()
	user, err := s.store.Users().Create(ctx, "s@example.com", "hash")
	s.Require().NoError(err)

	_, err = s.store.Vocab().Insert(ctx, models.VocabEntry{
		UserID: user.ID, DayNo: 1, Date: "2026-09-01", Word: "w", Translations: []string{"t"},
	})
	s.Require().NoError(err)
	s.seed(user.ID, "q1", 1, 100.0)

	s.Require().NoError(s.store.ResetUser(ctx, user.ID))

	max, err := s.store.Vocab().MaxDayNo(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(0, max)

	scores, err := s.store.Scores().List(ctx, user.ID)
	s.Require().NoError(err)
	s.Empty(scores)

	session, err := s.store.Quizzes().GetSession(ctx, user.ID, "q1")
	s.Require().NoError(err)
	s.Nil(session)

	// The account itself survives a reset.
	got, err := s.store.Users().Get(ctx, user.ID)
	s.Require().NoError(err)
	s.NotNil(got)
}

func TestScoreRepositorySuite(t *testing.T) {
	suite.Run(t, new(ScoreRepositorySuite))
}
