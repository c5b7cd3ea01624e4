package controllers

import (
	"encoding/json"
	"errors"
	"log"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	gm "learnhub/models/gamification"
	"learnhub/services/gamification"
	"learnhub/services/progress"
	"learnhub/services/quiz"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SubmitMCQAnswer submits and evaluates an MCQ answer
func SubmitMCQAnswer(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	content, err := findPublishedContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}
	if content.ContentType != courseModels.ContentTypeMCQ {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	if enrollment, err := findEnrollment(c, user.ID, content.CourseID); enrollment == nil {
		return err
	}

	reqData, ok := c.Locals("validatedMCQSubmit").(*courseValidator.MCQSubmitInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if len(reqData.SelectedOptionIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please select at least one option!", nil)
	}

	db := database.Database.Db

	var correctIDs []uint
	if err := db.Model(&courseModels.MCQOption{}).
		Where("content_id = ? AND is_correct = ? AND is_deleted = ?", content.ID, true, false).
		Pluck("id", &correctIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load options!", nil)
	}

	result := quiz.Score(correctIDs, reqData.SelectedOptionIDs)

	var attemptCount int64
	db.Model(&courseModels.MCQAttempt{}).Where("user_id = ? AND content_id = ? AND is_deleted = ?", user.ID, content.ID, false).Count(&attemptCount)

	selectedJSON, _ := json.Marshal(result.Selected)

	attempt := courseModels.MCQAttempt{
		UserID:          user.ID,
		CourseID:        content.CourseID,
		ContentID:       content.ID,
		SelectedOptions: selectedJSON,
		Score:           result.Score,
		MaxScore:        result.MaxScore,
		IsCorrect:       result.IsCorrect,
		AttemptNumber:   int(attemptCount) + 1,
	}
	if err := db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
	}

	data := fiber.Map{
		"attempt":    attempt,
		"is_correct": result.IsCorrect,
		"score":      result.Score,
		"max_score":  result.MaxScore,
	}

	// A correct answer completes the content
	if result.IsCorrect {
		outcome, err := progress.CompleteContent(c.UserContext(), db, user.ID, *content)
		if err != nil && !errors.Is(err, progress.ErrNotEnrolled) {
			log.Printf("[QUIZ] completing content %d for user %d failed: %v", content.ID, user.ID, err)
		}
		if err == nil {
			announceCompletion(user.ID, *content, outcome)
			data["progress"] = outcome.Enrollment.Progress
		}
		if attempt.AttemptNumber == 1 {
			if _, err := gamification.Award(db, user.ID, gm.ReasonQuizFirstTry, content.ID); err != nil {
				log.Printf("[QUIZ] first-try award for user %d failed: %v", user.ID, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", data)
}

// GetQuizSummary summarises the caller's MCQ attempts in a course
func GetQuizSummary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := validators.ID(c, "id")
	if enrollment, err := findEnrollment(c, user.ID, courseID); enrollment == nil {
		return err
	}

	summary, err := quizSummary(user.ID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz summary!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz summary fetched successfully!", summary)
}

func quizSummary(userID, courseID uint) (quiz.Summary, error) {
	var attempts []courseModels.MCQAttempt
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Find(&attempts).Error; err != nil {
		return quiz.Summary{}, err
	}

	scored := make([]quiz.Attempt, len(attempts))
	for i, a := range attempts {
		scored[i] = quiz.Attempt{Score: a.Score, MaxScore: a.MaxScore, IsCorrect: a.IsCorrect}
	}
	return quiz.Summarize(scored), nil
}
