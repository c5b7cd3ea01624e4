// Package progress records content completion and keeps enrollment progress
// in step with the course's published content.
package progress

import (
	"context"
	"errors"
	"math"
	"time"

	courseModels "learnhub/models/course"
	gm "learnhub/models/gamification"
	"learnhub/services/gamification"

	"gorm.io/gorm"
)

var ErrNotEnrolled = errors.New("user is not enrolled in this course")

// Outcome describes what a completion changed
type Outcome struct {
	Enrollment      courseModels.Enrollment `json:"enrollment"`
	NewCompletion   bool                    `json:"new_completion"`
	CourseCompleted bool                    `json:"course_completed"`
}

// CompleteContent marks content complete for the user. Completing the same
// content twice changes nothing.
func CompleteContent(ctx context.Context, db *gorm.DB, userID uint, content courseModels.CourseContent) (Outcome, error) {
	var out Outcome
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment courseModels.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, content.CourseID, false).
			First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEnrolled
			}
			return err
		}

		var existing courseModels.ContentCompletion
		err := tx.Where("user_id = ? AND course_content_id = ? AND is_deleted = ?", userID, content.ID, false).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			completion := courseModels.ContentCompletion{
				UserID:          userID,
				CourseID:        content.CourseID,
				CourseContentID: content.ID,
				Status:          "COMPLETED",
			}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}
			if _, err := gamification.Award(tx, userID, gm.ReasonContentCompleted, content.ID); err != nil {
				return err
			}
			out.NewCompletion = true
		case err != nil:
			return err
		}

		updated, justCompleted, err := recompute(tx, enrollment)
		if err != nil {
			return err
		}
		if justCompleted {
			if _, err := gamification.Award(tx, userID, gm.ReasonCourseCompleted, content.CourseID); err != nil {
				return err
			}
		}
		out.Enrollment = updated
		out.CourseCompleted = justCompleted
		return nil
	})
	return out, err
}

// Recompute refreshes the stored progress of one enrollment and reports
// whether it just became COMPLETED.
func Recompute(ctx context.Context, db *gorm.DB, userID, courseID uint) (courseModels.Enrollment, bool, error) {
	var enrollment courseModels.Enrollment
	if err := db.WithContext(ctx).Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return enrollment, false, ErrNotEnrolled
		}
		return enrollment, false, err
	}
	return recompute(db.WithContext(ctx), enrollment)
}

func recompute(db *gorm.DB, enrollment courseModels.Enrollment) (courseModels.Enrollment, bool, error) {
	var total, completed int64
	if err := db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).
		Count(&total).Error; err != nil {
		return enrollment, false, err
	}

	// only completions of content that still counts towards the total
	if err := db.Model(&courseModels.ContentCompletion{}).
		Joins("JOIN course_contents ON course_contents.id = content_completions.course_content_id").
		Where("content_completions.user_id = ? AND content_completions.course_id = ? AND content_completions.is_deleted = ?",
			enrollment.UserID, enrollment.CourseID, false).
		Scopes(countedContent).
		Count(&completed).Error; err != nil {
		return enrollment, false, err
	}

	wasCompleted := enrollment.Status == courseModels.EnrollmentCompleted
	now := time.Now()

	enrollment.CompletedContents = int(completed)
	enrollment.TotalContents = int(total)
	enrollment.LastActivityAt = &now
	if total > 0 {
		enrollment.Progress = Percent(completed, total)
	}

	switch {
	case enrollment.Progress >= 100:
		enrollment.Status = courseModels.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	case enrollment.Progress > 0 && !wasCompleted:
		enrollment.Status = courseModels.EnrollmentInProgress
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return enrollment, false, err
	}
	return enrollment, !wasCompleted && enrollment.Status == courseModels.EnrollmentCompleted, nil
}

// countedContent keeps a completion join to content that still counts
// towards progress. Soft-deleted rows are not filtered by joins.
func countedContent(db *gorm.DB) *gorm.DB {
	return db.Where("course_contents.is_deleted = ? AND course_contents.is_published = ? AND course_contents.deleted_at IS NULL", false, true)
}

// Percent is part/total*100 rounded to 2 decimals, capped at 100
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := math.Round(float64(part)/float64(total)*10000) / 100
	if p > 100 {
		return 100
	}
	return p
}

// ModuleProgress is completion within one module of a course
type ModuleProgress struct {
	ModuleID   uint    `json:"module_id"`
	Title      string  `json:"title"`
	Completed  int64   `json:"completed"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ByModule breaks a learner's progress down per module
func ByModule(ctx context.Context, db *gorm.DB, userID, courseID uint) ([]ModuleProgress, error) {
	db = db.WithContext(ctx)

	var modules []courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index ASC, id ASC").Find(&modules).Error; err != nil {
		return nil, err
	}

	out := make([]ModuleProgress, 0, len(modules))
	for _, m := range modules {
		var total, completed int64
		if err := db.Model(&courseModels.CourseContent{}).
			Where("module_id = ? AND is_deleted = ? AND is_published = ?", m.ID, false, true).
			Count(&total).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&courseModels.ContentCompletion{}).
			Joins("JOIN course_contents ON course_contents.id = content_completions.course_content_id").
			Where("content_completions.user_id = ? AND content_completions.is_deleted = ?", userID, false).
			Where("course_contents.module_id = ?", m.ID).
			Scopes(countedContent).
			Count(&completed).Error; err != nil {
			return nil, err
		}
		out = append(out, ModuleProgress{
			ModuleID:   m.ID,
			Title:      m.Title,
			Completed:  completed,
			Total:      total,
			Percentage: Percent(completed, total),
		})
	}
	return out, nil
}
