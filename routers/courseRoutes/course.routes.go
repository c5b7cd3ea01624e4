package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course", middleware.JWTMiddleware)

	// Static paths first so they are not taken for a course id
	userGroup.Get("/list", validators.Paginate(), courseValidator.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/enrollments", validators.Paginate(), courseValidator.GetCourseEnrollments(), controllers.GetEnrollments)
	userGroup.Get("/certificates", controllers.GetUserCertificates)

	// Content completion and MCQ submission
	userGroup.Post("/content/:content_id/complete", validators.IDParams("content_id"), controllers.MarkContentComplete)
	userGroup.Post("/content/:content_id/mcq/submit", validators.IDParams("content_id"), courseValidator.SubmitMCQ(), controllers.SubmitMCQAnswer)

	// Reviews
	userGroup.Put("/reviews/:review_id", validators.IDParams("review_id"), courseValidator.UpdateReview(), controllers.UpdateReview)
	userGroup.Delete("/reviews/:review_id", validators.IDParams("review_id"), controllers.DeleteReview)

	// Course details and enrollment
	userGroup.Get("/:id", validators.IDParams("id"), controllers.GetCourseDetails)
	userGroup.Post("/:id/enroll", validators.IDParams("id"), controllers.EnrollInCourse)

	// Content viewing (for enrolled users)
	userGroup.Get("/:id/content", validators.IDParams("id"), validators.Paginate(), courseValidator.CourseContentList(), controllers.GetCourseContent)
	userGroup.Get("/:course_id/module/:module_id/day/:day", validators.IDParams("course_id", "module_id", "day"), controllers.GetDayContent)

	// Progress tracking
	userGroup.Get("/:id/progress", validators.IDParams("id"), controllers.GetCourseProgress)
	userGroup.Get("/:id/quiz/summary", validators.IDParams("id"), controllers.GetQuizSummary)

	// Certificate request
	userGroup.Post("/:id/certificate/request", validators.IDParams("id"), controllers.RequestCertificate)

	userGroup.Get("/:id/reviews", validators.IDParams("id"), validators.Paginate(), controllers.GetCourseReviews)
	userGroup.Post("/:id/reviews", validators.IDParams("id"), courseValidator.CreateReview(), controllers.CreateReview)

	// Public certificate verification
	app.Get("/verify/certificate/:number", controllers.VerifyCertificate)
}
