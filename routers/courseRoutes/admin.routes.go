package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.AdminOnly)

	// Course CRUD
	adminGroup.Post("/create", courseValidator.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", validators.Paginate(), courseValidator.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/:id", validators.IDParams("id"), controllers.AdminGetCourseDetails)
	adminGroup.Put("/:id", validators.IDParams("id"), courseValidator.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", validators.IDParams("id"), controllers.AdminDeleteCourse)
	adminGroup.Post("/:id/publish", validators.IDParams("id"), courseValidator.PublishCourse(), controllers.AdminPublishCourse)

	// Module Management
	adminGroup.Post("/:id/module", validators.IDParams("id"), courseValidator.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/:id/modules", validators.IDParams("id"), controllers.AdminListModules)
	adminGroup.Put("/:course_id/module/:module_id", validators.IDParams("course_id", "module_id"), courseValidator.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/:course_id/module/:module_id", validators.IDParams("course_id", "module_id"), controllers.AdminDeleteModule)

	// Content Management
	adminGroup.Post("/:course_id/module/:module_id/content", validators.IDParams("course_id", "module_id"), courseValidator.CreateContentAdmin(), controllers.AdminCreateContent)
	adminGroup.Get("/:course_id/module/:module_id/content", validators.IDParams("course_id", "module_id"), controllers.AdminGetModuleContent)

	// Enrollment & Progress Tracking
	adminGroup.Get("/:id/enrollments", validators.IDParams("id"), validators.Paginate(), courseValidator.GetCourseEnrollments(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:id/completed", validators.IDParams("id"), validators.Paginate(), controllers.AdminGetCompletedStudents)

	// Content endpoints (separate from course group for easier access)
	contentGroup := app.Group("/admin/content", middleware.JWTMiddleware, middleware.AdminOnly)
	contentGroup.Put("/:content_id", validators.IDParams("content_id"), courseValidator.UpdateContentAdmin(), controllers.AdminUpdateContent)
	contentGroup.Delete("/:content_id", validators.IDParams("content_id"), controllers.AdminDeleteContent)
	contentGroup.Post("/:content_id/publish", validators.IDParams("content_id"), courseValidator.PublishContentAdmin(), controllers.AdminPublishContent)
	contentGroup.Post("/:content_id/image", validators.IDParams("content_id"), controllers.AdminUploadContentImage)

	// MCQ Management
	contentGroup.Post("/:content_id/mcq", validators.IDParams("content_id"), courseValidator.AddMCQOption(), controllers.AdminAddMCQOption)
	contentGroup.Get("/:content_id/mcq", validators.IDParams("content_id"), controllers.AdminListMCQOptions)

	mcqGroup := app.Group("/admin/mcq", middleware.JWTMiddleware, middleware.AdminOnly)
	mcqGroup.Put("/:option_id", validators.IDParams("option_id"), courseValidator.UpdateMCQOption(), controllers.AdminUpdateMCQOption)
	mcqGroup.Delete("/:option_id", validators.IDParams("option_id"), controllers.AdminDeleteMCQOption)

	studentGroup := app.Group("/admin/student", middleware.JWTMiddleware, middleware.AdminOnly)
	studentGroup.Get("/:user_id/progress", validators.IDParams("user_id"), controllers.AdminGetStudentProgress)

	// Certificate Management
	certGroup := app.Group("/admin/certificates", middleware.JWTMiddleware, middleware.AdminOnly)
	certGroup.Get("/pending", validators.Paginate(), controllers.AdminGetPendingCertificates)
	certGroup.Get("/issued", validators.Paginate(), controllers.AdminGetIssuedCertificates)
	certGroup.Post("/:request_id/approve", validators.IDParams("request_id"), controllers.AdminApproveCertificate)
	certGroup.Post("/:request_id/reject", validators.IDParams("request_id"), courseValidator.RejectCertificate(), controllers.AdminRejectCertificate)
}
