package course

import "gorm.io/gorm"

// Review is a learner's rating of a course they are enrolled in. There is
// one row per user and course; a deleted review is revived on resubmit.
type Review struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"uniqueIndex:idx_review_user_course;not null"`
	CourseID  uint   `json:"course_id" gorm:"uniqueIndex:idx_review_user_course;index;not null"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string `json:"comment" gorm:"type:text;default:''"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
