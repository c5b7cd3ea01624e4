package controllers

import (
	"errors"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services/events"
	"learnhub/services/progress"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// OptionView is an MCQ option without its answer
type OptionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index"`
}

// ContentWithMCQ represents content with MCQ options
type ContentWithMCQ struct {
	courseModels.CourseContent
	MCQOptions  []OptionView `json:"mcq_options,omitempty"`
	IsCompleted bool         `json:"is_completed"`
}

// DayContent groups the content of one day
type DayContent struct {
	Day      int                          `json:"day"`
	Contents []courseModels.CourseContent `json:"contents"`
}

func groupByDay(contents []courseModels.CourseContent) []DayContent {
	days := []DayContent{}
	index := map[int]int{}
	for _, content := range contents {
		i, ok := index[content.Day]
		if !ok {
			i = len(days)
			index[content.Day] = i
			days = append(days, DayContent{Day: content.Day})
		}
		days[i].Contents = append(days[i].Contents, content)
	}
	return days
}

// withLearnerView adds completion state and answer-free MCQ options
func withLearnerView(userID uint, contents []courseModels.CourseContent) []ContentWithMCQ {
	db := database.Database.Db
	result := make([]ContentWithMCQ, len(contents))
	if len(contents) == 0 {
		return result
	}

	ids := make([]uint, len(contents))
	for i, content := range contents {
		ids[i] = content.ID
	}

	var completedIDs []uint
	db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_content_id IN ? AND is_deleted = ?", userID, ids, false).
		Pluck("course_content_id", &completedIDs)
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	var options []courseModels.MCQOption
	db.Where("content_id IN ? AND is_deleted = ?", ids, false).Order("order_index asc, id asc").Find(&options)
	byContent := make(map[uint][]OptionView)
	for _, o := range options {
		byContent[o.ContentID] = append(byContent[o.ContentID], OptionView{ID: o.ID, OptionText: o.OptionText, OrderIndex: o.OrderIndex})
	}

	for i, content := range contents {
		result[i] = ContentWithMCQ{CourseContent: content, IsCompleted: completed[content.ID]}
		if content.ContentType == courseModels.ContentTypeMCQ {
			result[i].MCQOptions = byContent[content.ID]
		}
	}
	return result
}

// GetCourseContent lists the published content of a course the caller is enrolled in
func GetCourseContent(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	course, err := findActiveCourse(c, validators.ID(c, "id"))
	if course == nil {
		return err
	}
	if enrollment, err := findEnrollment(c, user.ID, course.ID); enrollment == nil {
		return err
	}

	page := validators.PageOf(c)

	db := database.Database.Db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", course.ID, false, true)
	if reqData, ok := c.Locals("validatedCourseContentList").(*courseValidator.ContentListQuery); ok {
		if reqData.ModuleID > 0 {
			db = db.Where("module_id = ?", reqData.ModuleID)
		}
		if reqData.Day > 0 {
			db = db.Where("day = ?", reqData.Day)
		}
		if reqData.ContentType != "" {
			db = db.Where("content_type = ?", reqData.ContentType)
		}
	}

	var total int64
	db.Count(&total)

	var contents []courseModels.CourseContent
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("module_id asc, day asc, order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"contents":   withLearnerView(user.ID, contents),
		"pagination": page.Meta(total),
	})
}

// MarkContentComplete records a completion and refreshes progress. Repeating
// it is harmless.
func MarkContentComplete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	content, err := findPublishedContent(c, validators.ID(c, "content_id"))
	if content == nil {
		return err
	}

	outcome, err := progress.CompleteContent(c.UserContext(), database.Database.Db, user.ID, *content)
	if err != nil {
		if errors.Is(err, progress.ErrNotEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content as completed!", nil)
	}

	announceCompletion(user.ID, *content, outcome)

	message := "Content marked as completed successfully!"
	if !outcome.NewCompletion {
		message = "Content already completed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, outcome)
}

func announceCompletion(userID uint, content courseModels.CourseContent, outcome progress.Outcome) {
	if outcome.NewCompletion {
		utils.Broadcast(events.ContentCompleted, "content", content.ID, fiber.Map{
			"user_id":    userID,
			"course_id":  content.CourseID,
			"content_id": content.ID,
			"progress":   outcome.Enrollment.Progress,
		})
	}
	if outcome.CourseCompleted {
		utils.Broadcast(events.CourseCompleted, "enrollment", outcome.Enrollment.ID, outcome.Enrollment)
	}
}

// GetCourseProgress returns the caller's progress per module
func GetCourseProgress(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := validators.ID(c, "id")
	enrollment, err := findEnrollment(c, user.ID, courseID)
	if enrollment == nil {
		return err
	}

	modules, err := progress.ByModule(c.UserContext(), database.Database.Db, user.ID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"modules":    modules,
	})
}
