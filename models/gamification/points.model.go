package gamification

import "gorm.io/gorm"

const (
	ReasonContentCompleted = "CONTENT_COMPLETED"
	ReasonQuizFirstTry     = "QUIZ_FIRST_TRY"
	ReasonCourseCompleted  = "COURSE_COMPLETED"
	ReasonCoursePurchased  = "COURSE_PURCHASED"
)

// PointsEntry is one award in a learner's points ledger
type PointsEntry struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"uniqueIndex:idx_points_award;not null"`
	Reason      string `json:"reason" gorm:"type:varchar(50);uniqueIndex:idx_points_award;not null"`
	ReferenceID uint   `json:"reference_id" gorm:"uniqueIndex:idx_points_award;not null"`
	Points      int    `json:"points" gorm:"not null"`
}
