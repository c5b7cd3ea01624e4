package controllers

import (
	"errors"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/events"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// refreshCourseRating stores the average of the course's active reviews
// rounded to 2 decimals; no reviews means 0.
func refreshCourseRating(tx *gorm.DB, courseID uint) error {
	var stats struct {
		Average float64
		Count   int
	}
	if err := tx.Model(&courseModels.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Scan(&stats).Error; err != nil {
		return err
	}
	return tx.Model(&courseModels.Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"rating":       utils.Round2(stats.Average),
		"review_count": stats.Count,
	}).Error
}

// CreateReview rates a course the caller is enrolled in
func CreateReview(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedReview").(*courseValidator.ReviewInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrolled int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).Count(&enrolled)
	if enrolled == 0 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Cannot review a course without enrollment!", nil)
	}

	var review courseModels.Review
	err = db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&review).Error
	switch {
	case err == nil && !review.IsDeleted:
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if review.ID != 0 {
			review.Rating, review.Comment, review.IsDeleted = reqData.Rating, reqData.Comment, false
			if err := tx.Model(&review).Select("rating", "comment", "is_deleted").Updates(&review).Error; err != nil {
				return err
			}
		} else {
			review = courseModels.Review{
				UserID:   user.ID,
				CourseID: course.ID,
				Rating:   reqData.Rating,
				Comment:  reqData.Comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		}
		return refreshCourseRating(tx, course.ID)
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	utils.Broadcast(events.ReviewCreated, "review", review.ID, review)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

func findOwnReview(c *fiber.Ctx, userID uint) (*courseModels.Review, error) {
	var review courseModels.Review
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", validators.ID(c, "review_id"), userID, false).
		First(&review).Error; err != nil {
		return nil, lookupFailed(c, err, "Review not found!")
	}
	return &review, nil
}

// UpdateReview changes the caller's own review
func UpdateReview(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	review, err := findOwnReview(c, user.ID)
	if review == nil {
		return err
	}

	reqData, ok := c.Locals("validatedReviewUpdate").(*courseValidator.ReviewUpdateInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Rating != nil {
		review.Rating = *reqData.Rating
	}
	if reqData.Comment != nil {
		review.Comment = *reqData.Comment
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return refreshCourseRating(tx, review.CourseID)
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// DeleteReview removes the caller's own review
func DeleteReview(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	review, err := findOwnReview(c, user.ID)
	if review == nil {
		return err
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(review).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return refreshCourseRating(tx, review.CourseID)
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}

// GetCourseReviews lists a course's reviews, newest first
func GetCourseReviews(c *fiber.Ctx) error {
	course, err := findCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}

	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.Review{}).Where("course_id = ? AND is_deleted = ?", course.ID, false)

	var total int64
	db.Count(&total)

	var reviews []courseModels.Review
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc, id desc").Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	type ReviewWithUser struct {
		courseModels.Review
		UserName string `json:"user_name"`
	}

	ids := make([]uint, len(reviews))
	for i, r := range reviews {
		ids[i] = r.UserID
	}
	var users []models.User
	names := map[uint]string{}
	if len(ids) > 0 {
		database.Database.Db.Select("id", "name").Where("id IN ?", ids).Find(&users)
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	result := make([]ReviewWithUser, len(reviews))
	for i, r := range reviews {
		result[i] = ReviewWithUser{Review: r, UserName: names[r.UserID]}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"course_id":    course.ID,
		"rating":       course.Rating,
		"review_count": course.ReviewCount,
		"reviews":      result,
		"pagination":   page.Meta(total),
	})
}
