package superAdminController_test

import (
	"fmt"
	"testing"
	"time"

	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/routers"
	"learnhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserManagement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := routers.New(routers.Options{})

	admin := testutil.CreateUser(t, db, "Root Admin", models.RoleAdmin, 0)
	adminToken := testutil.Token(t, admin)

	resp := testutil.Do(t, app, "POST", "/admin/users", adminToken, fiber.Map{
		"name":  "Ivy Instructor",
		"email": " Ivy@LearnHub.test ",
		"role":  "instructor",
	})
	require.Equal(t, fiber.StatusCreated, resp.Code, resp.Message)
	var ivy models.User
	resp.Decode(t, &ivy)
	assert.Equal(t, "ivy@learnhub.test", ivy.Email)
	assert.Equal(t, models.RoleInstructor, ivy.Role)

	resp = testutil.Do(t, app, "POST", "/admin/users", adminToken, fiber.Map{"name": "Ivy Again", "email": "ivy@learnhub.test"})
	assert.Equal(t, fiber.StatusConflict, resp.Code)

	resp = testutil.Do(t, app, "POST", "/admin/users", adminToken, fiber.Map{"name": "X", "email": "nope"})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)
	var problems map[string]string
	resp.Decode(t, &problems)
	assert.Contains(t, problems, "name")
	assert.Contains(t, problems, "email")

	resp = testutil.Do(t, app, "GET", "/admin/users?role=instructor&search=IVY", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var list struct {
		Users []models.User `json:"users"`
	}
	resp.Decode(t, &list)
	require.Len(t, list.Users, 1)
	assert.Equal(t, ivy.ID, list.Users[0].ID)

	resp = testutil.Do(t, app, "PUT", fmt.Sprintf("/admin/users/%d/role", admin.ID), adminToken, fiber.Map{"role": "USER"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Code)

	resp = testutil.Do(t, app, "PUT", fmt.Sprintf("/admin/users/%d/role", ivy.ID), adminToken, fiber.Map{"role": "admin"})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	// roles are read from the database, so the new admin is let in with an old token
	ivyToken := testutil.Token(t, ivy)
	resp = testutil.Do(t, app, "GET", "/admin/users", ivyToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, app, "PUT", fmt.Sprintf("/admin/users/%d/block", admin.ID), adminToken, fiber.Map{"blocked": true})
	assert.Equal(t, fiber.StatusBadRequest, resp.Code)

	resp = testutil.Do(t, app, "PUT", fmt.Sprintf("/admin/users/%d/block", ivy.ID), adminToken, fiber.Map{"blocked": true})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	assert.Equal(t, "User blocked successfully.", resp.Message)

	resp = testutil.Do(t, app, "GET", "/user/profile", ivyToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Code)
	assert.Equal(t, "Your account is blocked!", resp.Message)

	for _, path := range []string{"/course/list", "/course/1/reviews", "/user/leaderboard", "/flags"} {
		resp = testutil.Do(t, app, "GET", path, ivyToken, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.Code, path)
	}
	resp = testutil.Do(t, app, "POST", "/billing/coupon/validate", ivyToken, fiber.Map{"code": "ANY", "course_id": 1})
	assert.Equal(t, fiber.StatusForbidden, resp.Code)

	resp = testutil.Do(t, app, "PUT", fmt.Sprintf("/admin/users/%d/block", ivy.ID), adminToken, fiber.Map{"blocked": false})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	assert.Equal(t, "User unblocked successfully.", resp.Message)

	resp = testutil.Do(t, app, "GET", "/user/profile", ivyToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, app, "PUT", "/admin/users/9999/block", adminToken, fiber.Map{"blocked": true})
	assert.Equal(t, fiber.StatusNotFound, resp.Code)
}

func TestDashboardAndCourseAnalytics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := routers.New(routers.Options{})

	admin := testutil.CreateUser(t, db, "Stats Admin", models.RoleAdmin, 0)
	learner := testutil.CreateUser(t, db, "Stat Learner", models.RoleUser, 0)
	other := testutil.CreateUser(t, db, "Other Learner", models.RoleUser, 0)
	adminToken := testutil.Token(t, admin)

	course := courseModels.Course{Title: "Statistics", Status: courseModels.CourseStatusActive, IsPublished: true, Price: decimal.NewFromInt(30)}
	require.NoError(t, db.Create(&course).Error)
	draft := courseModels.Course{Title: "Draft", Status: courseModels.CourseStatusActive}
	require.NoError(t, db.Create(&draft).Error)

	done := time.Now()
	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID: learner.ID, CourseID: course.ID, Status: courseModels.EnrollmentCompleted, Progress: 100, CompletedAt: &done,
	}).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID: other.ID, CourseID: course.ID, Status: courseModels.EnrollmentInProgress, Progress: 50,
	}).Error)
	require.NoError(t, db.Create(&billing.Payment{
		UserID: learner.ID, CourseID: course.ID,
		OriginalAmount: decimal.NewFromInt(30), DiscountAmount: decimal.Zero, Amount: decimal.NewFromInt(30),
		Status: billing.PaymentCompleted, PaidAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&billing.Payment{
		UserID: other.ID, CourseID: course.ID,
		OriginalAmount: decimal.NewFromInt(30), DiscountAmount: decimal.Zero, Amount: decimal.NewFromInt(30),
		Status: billing.PaymentRefunded, PaidAt: time.Now(),
	}).Error)

	resp := testutil.Do(t, app, "GET", "/admin/analytics/dashboard", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var stats struct {
		TotalUsers        int64              `json:"total_users"`
		TotalCourses      int64              `json:"total_courses"`
		PublishedCourses  int64              `json:"published_courses"`
		TotalEnrollments  int64              `json:"total_enrollments"`
		CompletedStudents int64              `json:"completed_students"`
		CompletionRate    float64            `json:"completion_rate"`
		RevenueToday      decimal.Decimal    `json:"revenue_today"`
		RevenueThisMonth  decimal.Decimal    `json:"revenue_this_month"`
		Recent            []recentEnrollment `json:"recent_enrollments"`
	}
	resp.Decode(t, &stats)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalCourses)
	assert.Equal(t, int64(1), stats.PublishedCourses)
	assert.Equal(t, int64(2), stats.TotalEnrollments)
	assert.Equal(t, int64(1), stats.CompletedStudents)
	assert.Equal(t, 50.0, stats.CompletionRate)
	assert.True(t, stats.RevenueToday.Equal(decimal.NewFromInt(30)), stats.RevenueToday.String())
	assert.True(t, stats.RevenueThisMonth.Equal(decimal.NewFromInt(30)), stats.RevenueThisMonth.String())
	require.Len(t, stats.Recent, 2)
	assert.Equal(t, "Statistics", stats.Recent[0].CourseTitle)

	resp = testutil.Do(t, app, "GET", fmt.Sprintf("/admin/analytics/course/%d", course.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var analytics struct {
		Enrollments     int64           `json:"enrollments"`
		Completions     int64           `json:"completions"`
		AverageProgress float64         `json:"average_progress"`
		Revenue         decimal.Decimal `json:"revenue"`
	}
	resp.Decode(t, &analytics)
	assert.Equal(t, int64(2), analytics.Enrollments)
	assert.Equal(t, int64(1), analytics.Completions)
	assert.Equal(t, 75.0, analytics.AverageProgress)
	assert.True(t, analytics.Revenue.Equal(decimal.NewFromInt(30)))

	resp = testutil.Do(t, app, "GET", "/admin/analytics/enrollments/daily?days=3", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var daily struct {
		Days  int `json:"days"`
		Daily []struct {
			Date  string `json:"date"`
			Count int64  `json:"count"`
		} `json:"daily"`
	}
	resp.Decode(t, &daily)
	assert.Equal(t, 3, daily.Days)
	require.Len(t, daily.Daily, 3)
	assert.Equal(t, int64(2), daily.Daily[2].Count)

	resp = testutil.Do(t, app, "GET", "/admin/analytics/enrollments/daily?days=365", adminToken, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)
}

type recentEnrollment struct {
	CourseTitle string `json:"course_title"`
	UserName    string `json:"user_name"`
}
