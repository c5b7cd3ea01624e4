package platformController

import (
	"errors"
	"log"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/models/platform"
	"learnhub/services/video"
	"learnhub/utils"
	"learnhub/validators"
	platformValidator "learnhub/validators/platform"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// submitJob hands the job to the runner. A job the runner cannot take is
// marked FAILED and the caller gets 503.
func submitJob(c *fiber.Ctx, job *platform.VideoJob, accepted int, message string) error {
	if video.Default == nil {
		video.MarkRejected(database.Database.Db, job.ID, video.ErrShuttingDown)
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Video processing is unavailable!", nil)
	}

	if err := video.Default.Submit(job.ID); err != nil {
		video.MarkRejected(database.Database.Db, job.ID, err)
		log.Printf("[VIDEO-PIPELINE] job %d rejected: %v", job.ID, err)
		if errors.Is(err, video.ErrQueueFull) {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Video queue is full, try again later!", fiber.Map{"job_id": job.ID})
		}
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Video processing is shutting down!", fiber.Map{"job_id": job.ID})
	}

	return middleware.JsonResponse(c, accepted, true, message, job)
}

// RegisterVideo queues processing of an uploaded video for VIDEO content (Admin only)
func RegisterVideo(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVideo").(*platformValidator.VideoInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var content courseModels.CourseContent
	if err := db.Where("id = ? AND is_deleted = ?", reqData.ContentID, false).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error!", nil)
	}
	if content.ContentType != courseModels.ContentTypeVideo {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not a video!", nil)
	}

	var running int64
	db.Model(&platform.VideoJob{}).
		Where("content_id = ? AND status IN ?", content.ID, []string{platform.VideoJobQueued, platform.VideoJobProcessing}).
		Count(&running)
	if running > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A video is already being processed for this content!", nil)
	}

	job := platform.VideoJob{
		ContentID: content.ID,
		CourseID:  content.CourseID,
		SourceURL: reqData.SourceURL,
		UploadKey: utils.NewUploadKey(),
		Status:    platform.VideoJobQueued,
	}
	if err := db.Create(&job).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video job!", nil)
	}

	return submitJob(c, &job, fiber.StatusAccepted, "Video queued for processing!")
}

func findJob(c *fiber.Ctx) (*platform.VideoJob, error) {
	var job platform.VideoJob
	if err := database.Database.Db.First(&job, validators.ID(c, "job_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video job not found!", nil)
		}
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load video job!", nil)
	}
	return &job, nil
}

// GetVideoJob reports the state of a processing job (Admin only)
func GetVideoJob(c *fiber.Ctx) error {
	job, err := findJob(c)
	if job == nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video job fetched successfully!", job)
}

// ListContentVideoJobs lists the jobs of one content item, newest first (Admin only)
func ListContentVideoJobs(c *fiber.Ctx) error {
	var jobs []platform.VideoJob
	if err := database.Database.Db.Where("content_id = ?", validators.ID(c, "content_id")).
		Order("created_at desc").Find(&jobs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch video jobs!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video jobs fetched successfully!", jobs)
}

// RetryVideoJob re-queues a FAILED job (Admin only)
func RetryVideoJob(c *fiber.Ctx) error {
	job, err := findJob(c)
	if job == nil {
		return err
	}

	result := database.Database.Db.Model(&platform.VideoJob{}).
		Where("id = ? AND status = ?", job.ID, platform.VideoJobFailed).
		Updates(map[string]interface{}{
			"status":       platform.VideoJobQueued,
			"error":        "",
			"current_step": "",
		})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to retry video job!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only failed jobs can be retried!", nil)
	}
	job.Status = platform.VideoJobQueued
	job.Error = ""
	job.CurrentStep = ""

	return submitJob(c, job, fiber.StatusAccepted, "Video job re-queued!")
}
