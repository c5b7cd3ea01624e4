package gamification

import (
	"context"
	"testing"

	"learnhub/models"
	courseModels "learnhub/models/course"
	gm "learnhub/models/gamification"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardIsOncePerReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ada Lovelace", models.RoleUser, 0)

	created, err := Award(db, user.ID, gm.ReasonContentCompleted, 7)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Award(db, user.ID, gm.ReasonContentCompleted, 7)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = Award(db, user.ID, gm.ReasonContentCompleted, 8)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Award(db, user.ID, "UNKNOWN", 1)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&gm.PointsEntry{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(499))
	assert.Equal(t, 2, Level(500))
	assert.Equal(t, 3, Level(1200))
	assert.Equal(t, 1, Level(-10))
}

func TestBadges(t *testing.T) {
	assert.Empty(t, Badges(0, 0, 0))
	assert.Equal(t, []string{BadgeFirstSteps}, Badges(10, 0, 9))
	assert.Equal(t, []string{BadgeFirstSteps, BadgeCourseFinisher, BadgeQuizMaster, BadgeScholar}, Badges(1000, 1, 10))
}

func TestUserSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Grace Hopper", models.RoleUser, 0)

	_, err := Award(db, user.ID, gm.ReasonCourseCompleted, 1)
	require.NoError(t, err)
	_, err = Award(db, user.ID, gm.ReasonCoursePurchased, 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: user.ID, CourseID: 1, Status: courseModels.EnrollmentCompleted}).Error)
	require.NoError(t, db.Create(&courseModels.MCQAttempt{UserID: user.ID, ContentID: 3, IsCorrect: true}).Error)

	s, err := UserSummary(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, s.Points)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 500, s.NextLevelAt)
	assert.Equal(t, 1, s.CompletedCourses)
	assert.Equal(t, 1, s.CorrectAnswers)
	assert.Equal(t, []string{BadgeFirstSteps, BadgeCourseFinisher}, s.Badges)
}

func TestQuizMasterCountsDistinctQuestions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Alan Turing", models.RoleUser, 0)

	for i := 1; i <= 10; i++ {
		require.NoError(t, db.Create(&courseModels.MCQAttempt{UserID: user.ID, ContentID: 42, IsCorrect: true, AttemptNumber: i}).Error)
	}

	s, err := UserSummary(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CorrectAnswers)
	assert.NotContains(t, s.Badges, BadgeQuizMaster)

	for content := uint(100); content < 109; content++ {
		require.NoError(t, db.Create(&courseModels.MCQAttempt{UserID: user.ID, ContentID: content, IsCorrect: true}).Error)
	}
	require.NoError(t, db.Create(&courseModels.MCQAttempt{UserID: user.ID, ContentID: 200, IsCorrect: false}).Error)

	s, err = UserSummary(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, s.CorrectAnswers)
	assert.Contains(t, s.Badges, BadgeQuizMaster)
}

func TestLeaderboardOrdersAndLimits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := testutil.CreateUser(t, db, "Alice", models.RoleUser, 0)
	b := testutil.CreateUser(t, db, "Bob", models.RoleUser, 0)
	c := testutil.CreateUser(t, db, "Carol", models.RoleUser, 0)

	for i := uint(1); i <= 3; i++ {
		_, err := Award(db, b.ID, gm.ReasonContentCompleted, i)
		require.NoError(t, err)
	}
	_, err := Award(db, a.ID, gm.ReasonCourseCompleted, 1)
	require.NoError(t, err)
	_, err = Award(db, c.ID, gm.ReasonContentCompleted, 1)
	require.NoError(t, err)

	board, err := Leaderboard(context.Background(), db, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, a.ID, board[0].UserID)
	assert.Equal(t, 100, board[0].Points)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, b.ID, board[1].UserID)
	assert.Equal(t, 30, board[1].Points)
	assert.Equal(t, "Bob", board[1].Name)
}
