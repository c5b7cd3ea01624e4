// Package gamification awards learner points and derives levels and badges.
package gamification

import (
	"context"

	courseModels "learnhub/models/course"
	gm "learnhub/models/gamification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PointsContentCompleted = 10
	PointsQuizFirstTry     = 5
	PointsCourseCompleted  = 100
	PointsCoursePurchased  = 20

	PointsPerLevel = 500

	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

const (
	BadgeFirstSteps     = "FIRST_STEPS"
	BadgeCourseFinisher = "COURSE_FINISHER"
	BadgeQuizMaster     = "QUIZ_MASTER"
	BadgeScholar        = "SCHOLAR"
)

var pointsFor = map[string]int{
	gm.ReasonContentCompleted: PointsContentCompleted,
	gm.ReasonQuizFirstTry:     PointsQuizFirstTry,
	gm.ReasonCourseCompleted:  PointsCourseCompleted,
	gm.ReasonCoursePurchased:  PointsCoursePurchased,
}

// Award records points for (user, reason, reference) once. It reports whether
// a new entry was written; repeats are ignored.
func Award(db *gorm.DB, userID uint, reason string, referenceID uint) (bool, error) {
	points, ok := pointsFor[reason]
	if !ok || userID == 0 {
		return false, nil
	}
	entry := gm.PointsEntry{UserID: userID, Reason: reason, ReferenceID: referenceID, Points: points}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Level is 1 for the first PointsPerLevel points and grows by one per block
func Level(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// Badges derives the earned badges from the learner's totals
func Badges(points, completedCourses, correctAnswers int) []string {
	badges := []string{}
	if points > 0 {
		badges = append(badges, BadgeFirstSteps)
	}
	if completedCourses >= 1 {
		badges = append(badges, BadgeCourseFinisher)
	}
	if correctAnswers >= 10 {
		badges = append(badges, BadgeQuizMaster)
	}
	if points >= 1000 {
		badges = append(badges, BadgeScholar)
	}
	return badges
}

type Summary struct {
	UserID           uint     `json:"user_id"`
	Points           int      `json:"points"`
	Level            int      `json:"level"`
	NextLevelAt      int      `json:"next_level_at"`
	CompletedCourses int      `json:"completed_courses"`
	CorrectAnswers   int      `json:"correct_answers"`
	Badges           []string `json:"badges"`
}

func UserSummary(ctx context.Context, db *gorm.DB, userID uint) (Summary, error) {
	db = db.WithContext(ctx)

	var points int
	if err := db.Model(&gm.PointsEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&points).Error; err != nil {
		return Summary{}, err
	}

	var completed int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, courseModels.EnrollmentCompleted, false).
		Count(&completed).Error; err != nil {
		return Summary{}, err
	}

	// questions answered correctly at least once, not attempts
	var correct int64
	if err := db.Model(&courseModels.MCQAttempt{}).
		Distinct("content_id").
		Where("user_id = ? AND is_correct = ? AND is_deleted = ?", userID, true, false).
		Count(&correct).Error; err != nil {
		return Summary{}, err
	}

	level := Level(points)
	return Summary{
		UserID:           userID,
		Points:           points,
		Level:            level,
		NextLevelAt:      level * PointsPerLevel,
		CompletedCourses: int(completed),
		CorrectAnswers:   int(correct),
		Badges:           Badges(points, int(completed), int(correct)),
	}, nil
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

// Leaderboard returns the top learners by points, ties broken by user id
func Leaderboard(ctx context.Context, db *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	var rows []struct {
		UserID uint
		Name   string
		Points int
	}
	if err := db.WithContext(ctx).
		Table("points_entries").
		Select("points_entries.user_id, users.name, SUM(points_entries.points) AS points").
		Joins("JOIN users ON users.id = points_entries.user_id").
		Where("points_entries.deleted_at IS NULL AND users.is_deleted = ?", false).
		Group("points_entries.user_id, users.name").
		Order("points DESC, points_entries.user_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: r.UserID,
			Name:   r.Name,
			Points: r.Points,
			Level:  Level(r.Points),
		})
	}
	return entries, nil
}
