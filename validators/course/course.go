package courseValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CourseListQuery struct {
	Search string `query:"search" validate:"max=100"`
}

func (q *CourseListQuery) Normalize() {
	q.Search = strings.TrimSpace(q.Search)
}

// CourseList validates the learner catalog search
func CourseList() fiber.Handler {
	return validators.Query[CourseListQuery]("validatedCourseList")
}

type ContentListQuery struct {
	ModuleID    uint   `query:"module_id"`
	Day         int    `query:"day" validate:"gte=0"`
	ContentType string `query:"content_type" validate:"omitempty,oneof=TEXT MCQ VIDEO IMAGE"`
}

func (q *ContentListQuery) Normalize() {
	q.ContentType = strings.ToUpper(strings.TrimSpace(q.ContentType))
}

// CourseContentList validates the optional filters of the content listing
func CourseContentList() fiber.Handler {
	return validators.Query[ContentListQuery]("validatedCourseContentList")
}
