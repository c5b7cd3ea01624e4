package courseValidator

import (
	"strings"

	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ============ Course Validators ============

type CourseInput struct {
	Title        string          `json:"title" validate:"required,min=3,max=200,excludesall=<>{}"`
	Description  string          `json:"description" validate:"required,min=5"`
	Author       string          `json:"author" validate:"required,min=3,max=100,excludesall=<>{}"`
	InstructorID uint            `json:"instructor_id"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Duration     int64           `json:"duration" validate:"gte=0"`
	ThumbnailURL string          `json:"thumbnail_url" validate:"omitempty,url"`
}

func (r *CourseInput) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Author = strings.TrimSpace(r.Author)
	r.Price = r.Price.Round(2)
}

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return validators.Body[CourseInput]("validatedCourse")
}

type CourseUpdateInput struct {
	Title        *string          `json:"title" validate:"omitempty,min=3,max=200,excludesall=<>{}"`
	Description  *string          `json:"description" validate:"omitempty,min=5"`
	Author       *string          `json:"author" validate:"omitempty,min=3,max=100,excludesall=<>{}"`
	InstructorID *uint            `json:"instructor_id"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Duration     *int64           `json:"duration" validate:"omitempty,gte=0"`
	ThumbnailURL *string          `json:"thumbnail_url" validate:"omitempty,url"`
	Status       *string          `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE INACTIVE"`
}

func (r *CourseUpdateInput) Normalize() {
	trim(r.Title, r.Description, r.Author)
	if r.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
	if r.Price != nil {
		p := r.Price.Round(2)
		r.Price = &p
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
	return validators.Body[CourseUpdateInput]("validatedCourseUpdate")
}

type PublishQuery struct {
	Publish string `query:"publish" validate:"omitempty,oneof=true false"`
}

// Value defaults to publishing when the flag is absent
func (q *PublishQuery) Value() bool {
	return q.Publish != "false"
}

// PublishCourse validates the optional ?publish=false flag
func PublishCourse() fiber.Handler {
	return validators.Query[PublishQuery]("publishStatus")
}

type AdminCourseListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=DRAFT ACTIVE INACTIVE"`
	Search string `query:"search" validate:"max=100"`
}

func (q *AdminCourseListQuery) Normalize() {
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	q.Search = strings.TrimSpace(q.Search)
}

func AdminList() fiber.Handler {
	return validators.Query[AdminCourseListQuery]("validatedAdminList")
}

// ============ Module Validators ============

type ModuleInput struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func (r *ModuleInput) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func CreateModule() fiber.Handler {
	return validators.Body[ModuleInput]("validatedModule")
}

type ModuleUpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,gte=0"`
}

func (r *ModuleUpdateInput) Normalize() {
	trim(r.Title, r.Description)
}

func UpdateModule() fiber.Handler {
	return validators.Body[ModuleUpdateInput]("validatedModuleUpdate")
}

// ============ Enrollment & Certificate Admin Validators ============

type EnrollmentListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=ENROLLED IN_PROGRESS COMPLETED"`
}

func (q *EnrollmentListQuery) Normalize() {
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
}

func GetCourseEnrollments() fiber.Handler {
	return validators.Query[EnrollmentListQuery]("validatedEnrollmentList")
}

type RejectCertificateInput struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func (r *RejectCertificateInput) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func RejectCertificate() fiber.Handler {
	return validators.Body[RejectCertificateInput]("validatedRejection")
}

func trim(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
