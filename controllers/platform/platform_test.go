package platformController_test

import (
	"fmt"
	"testing"

	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/models/platform"
	"learnhub/routers"
	"learnhub/services/assistant"
	"learnhub/services/featureflag"
	"learnhub/services/video"
	"learnhub/services/webhook"
	"learnhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	app        *fiber.App
	learner    models.User
	adminToken string
	userToken  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "Platform Admin", models.RoleAdmin, 0)
	learner := testutil.CreateUser(t, db, "Lee Learner", models.RoleUser, 0)
	return fixture{
		db:         db,
		app:        routers.New(routers.Options{}),
		learner:    learner,
		adminToken: testutil.Token(t, admin),
		userToken:  testutil.Token(t, learner),
	}
}

func TestFeatureFlagLifecycle(t *testing.T) {
	f := setup(t)

	resp := testutil.Do(t, f.app, "POST", "/admin/flags", f.userToken, fiber.Map{"key": "new-player"})
	assert.Equal(t, fiber.StatusForbidden, resp.Code)

	resp = testutil.Do(t, f.app, "POST", "/admin/flags", f.adminToken, fiber.Map{"key": "Bad Key!"})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)

	resp = testutil.Do(t, f.app, "POST", "/admin/flags", f.adminToken, fiber.Map{
		"key":                "New-Player",
		"description":        "HLS player",
		"enabled":            true,
		"rollout_percentage": 0,
	})
	require.Equal(t, fiber.StatusCreated, resp.Code, resp.Message)
	var flag platform.FeatureFlag
	resp.Decode(t, &flag)
	assert.Equal(t, "new-player", flag.Key)

	resp = testutil.Do(t, f.app, "POST", "/admin/flags", f.adminToken, fiber.Map{"key": "new-player"})
	assert.Equal(t, fiber.StatusConflict, resp.Code)

	var decision featureflag.Decision
	resp = testutil.Do(t, f.app, "GET", "/flags/new-player", f.userToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	resp.Decode(t, &decision)
	assert.False(t, decision.Enabled)
	assert.Equal(t, featureflag.ReasonRollout, decision.Reason)

	flagPath := fmt.Sprintf("/admin/flags/%d", flag.ID)
	resp = testutil.Do(t, f.app, "PUT", flagPath+"/overrides", f.adminToken, fiber.Map{
		"scope":     "user",
		"target_id": f.learner.ID,
		"value":     true,
	})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var override platform.FeatureFlagOverride
	resp.Decode(t, &override)

	// a second write for the same target replaces the first
	resp = testutil.Do(t, f.app, "PUT", flagPath+"/overrides", f.adminToken, fiber.Map{
		"scope":     "USER",
		"target_id": f.learner.ID,
		"value":     true,
	})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var overrides int64
	f.db.Model(&platform.FeatureFlagOverride{}).Where("flag_id = ?", flag.ID).Count(&overrides)
	assert.Equal(t, int64(1), overrides)

	resp = testutil.Do(t, f.app, "GET", "/flags/new-player", f.userToken, nil)
	resp.Decode(t, &decision)
	assert.True(t, decision.Enabled)
	assert.Equal(t, featureflag.ReasonUserOverride, decision.Reason)

	var all []featureflag.Decision
	resp = testutil.Do(t, f.app, "GET", "/flags", f.userToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	resp.Decode(t, &all)
	require.Len(t, all, 1)
	assert.True(t, all[0].Enabled)

	resp = testutil.Do(t, f.app, "PUT", flagPath, f.adminToken, fiber.Map{"enabled": false})
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, f.app, "GET", "/flags/new-player", f.userToken, nil)
	resp.Decode(t, &decision)
	assert.False(t, decision.Enabled)
	assert.Equal(t, featureflag.ReasonDisabled, decision.Reason)

	resp = testutil.Do(t, f.app, "GET", "/flags/missing-flag", f.userToken, nil)
	resp.Decode(t, &decision)
	assert.False(t, decision.Enabled)
	assert.Equal(t, featureflag.ReasonNotFound, decision.Reason)

	resp = testutil.Do(t, f.app, "DELETE", fmt.Sprintf("%s/overrides/%d", flagPath, override.ID), f.adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, f.app, "DELETE", flagPath, f.adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, f.app, "GET", flagPath, f.adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Code)
}

func TestWebhookRegistration(t *testing.T) {
	f := setup(t)
	webhook.Default = nil

	resp := testutil.Do(t, f.app, "POST", "/admin/webhooks", f.adminToken, fiber.Map{
		"url":    "https://hooks.example.com/learnhub",
		"secret": "0123456789abcdef",
		"events": []string{"payment.completed", "course.exploded"},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)
	var problems map[string]string
	resp.Decode(t, &problems)
	assert.Contains(t, problems, "events[1]")

	resp = testutil.Do(t, f.app, "POST", "/admin/webhooks", f.adminToken, fiber.Map{
		"url":    "https://hooks.example.com/learnhub",
		"secret": "0123456789abcdef",
		"events": []string{"payment.completed", "enrollment.created", "payment.completed"},
	})
	require.Equal(t, fiber.StatusCreated, resp.Code, resp.Message)
	var hook platform.Webhook
	resp.Decode(t, &hook)
	assert.Equal(t, "payment.completed,enrollment.created", hook.Events)
	assert.True(t, hook.IsActive)

	resp = testutil.Do(t, f.app, "POST", fmt.Sprintf("/admin/webhooks/%d/ping", hook.ID), f.adminToken, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Code)

	resp = testutil.Do(t, f.app, "GET", fmt.Sprintf("/admin/webhooks/%d/deliveries", hook.ID), f.adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, f.app, "DELETE", fmt.Sprintf("/admin/webhooks/%d", hook.ID), f.adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Code, resp.Message)

	resp = testutil.Do(t, f.app, "GET", fmt.Sprintf("/admin/webhooks/%d/deliveries", hook.ID), f.adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Code)
}

func videoContent(t *testing.T, db *gorm.DB, contentType string) courseModels.CourseContent {
	t.Helper()
	course := courseModels.Course{Title: "Video Basics", Status: courseModels.CourseStatusActive}
	require.NoError(t, db.Create(&course).Error)
	module := courseModels.Module{CourseID: course.ID, Title: "Week 1"}
	require.NoError(t, db.Create(&module).Error)
	content := courseModels.CourseContent{CourseID: course.ID, ModuleID: module.ID, Day: 1, Title: "Intro", ContentType: contentType}
	require.NoError(t, db.Create(&content).Error)
	return content
}

func TestRegisterVideoWithoutRunner(t *testing.T) {
	f := setup(t)
	video.Default = nil

	text := videoContent(t, f.db, courseModels.ContentTypeText)
	resp := testutil.Do(t, f.app, "POST", "/admin/videos", f.adminToken, fiber.Map{
		"content_id": text.ID,
		"source_url": "https://uploads.example.com/intro.mp4",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.Code)

	clip := videoContent(t, f.db, courseModels.ContentTypeVideo)
	resp = testutil.Do(t, f.app, "POST", "/admin/videos", f.adminToken, fiber.Map{
		"content_id": clip.ID,
		"source_url": "not a url",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Code)

	resp = testutil.Do(t, f.app, "POST", "/admin/videos", f.adminToken, fiber.Map{
		"content_id": clip.ID,
		"source_url": "https://uploads.example.com/intro.mp4",
	})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Code)

	var job platform.VideoJob
	require.NoError(t, f.db.Where("content_id = ?", clip.ID).First(&job).Error)
	assert.Equal(t, platform.VideoJobFailed, job.Status)
	assert.NotEmpty(t, job.UploadKey)

	resp = testutil.Do(t, f.app, "GET", fmt.Sprintf("/admin/videos/content/%d", clip.ID), f.adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Code, resp.Message)
	var jobs []platform.VideoJob
	resp.Decode(t, &jobs)
	assert.Len(t, jobs, 1)

	// retry flips the job back to QUEUED before the runner refuses it again
	resp = testutil.Do(t, f.app, "POST", fmt.Sprintf("/admin/videos/%d/retry", job.ID), f.adminToken, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Code)
	require.NoError(t, f.db.First(&job, job.ID).Error)
	assert.Equal(t, platform.VideoJobFailed, job.Status)
}

func TestAssistantDisabled(t *testing.T) {
	f := setup(t)
	assistant.Default = assistant.New("", "", "", 60)

	resp := testutil.Do(t, f.app, "POST", "/ai/course/1/summary", f.userToken, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "AI assistant is not available!", resp.Message)

	resp = testutil.Do(t, f.app, "POST", "/ai/content/1/explain", f.userToken, fiber.Map{"question": "Why?"})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Code)

	resp = testutil.Do(t, f.app, "POST", "/ai/course/1/summary", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Code)
}
