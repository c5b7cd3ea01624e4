package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"learnhub/metrics"
	courseModels "learnhub/models/course"
	"learnhub/models/platform"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrQueueFull    = errors.New("all video workers are busy")
	ErrShuttingDown = errors.New("video runner is shutting down")
)

// Default is the runner used by the HTTP handlers; nil until main sets it.
var Default *Runner

// Runner executes jobs in the background with a fixed number of slots
type Runner struct {
	db       *gorm.DB
	pipeline *Pipeline

	slots  chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc

	// OnFinish is called with the final job state after it completes or fails
	OnFinish func(job platform.VideoJob)
}

func NewRunner(db *gorm.DB, pipeline *Pipeline, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		db:       db,
		pipeline: pipeline,
		slots:    make(chan struct{}, workers),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit starts the job if a slot is free. It never blocks.
func (r *Runner) Submit(jobID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrShuttingDown
	}

	select {
	case r.slots <- struct{}{}:
	default:
		return ErrQueueFull
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() { <-r.slots }()
		if err := r.Process(r.ctx, jobID); err != nil {
			log.Printf("[VIDEO-PIPELINE] job %d failed: %v", jobID, err)
		}
	}()
	return nil
}

// Wait blocks until every submitted job has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown stops accepting jobs, cancels running ones and waits for them
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Process runs one job synchronously and records the outcome
func (r *Runner) Process(ctx context.Context, jobID uint) error {
	var job platform.VideoJob
	if err := r.db.First(&job, jobID).Error; err != nil {
		return err
	}

	started := time.Now()
	if err := r.db.Model(&job).Updates(map[string]interface{}{
		"status":       platform.VideoJobProcessing,
		"attempts":     job.Attempts + 1,
		"started_at":   started,
		"finished_at":  nil,
		"error":        "",
		"current_step": "",
	}).Error; err != nil {
		return err
	}
	log.Printf("[VIDEO-PIPELINE] job %d started for content %d", job.ID, job.ContentID)

	outputs, failedStep, err := r.pipeline.Run(ctx, &job, func(name string) {
		r.db.Model(&platform.VideoJob{}).Where("id = ?", job.ID).Update("current_step", name)
	})
	metrics.VideoJobDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		r.markFailed(job.ID, fmt.Sprintf("%s: %v", failedStep, err))
		return err
	}

	raw, _ := json.Marshal(outputs)
	finished := time.Now()
	txErr := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&platform.VideoJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":       platform.VideoJobCompleted,
			"current_step": "",
			"outputs":      datatypes.JSON(raw),
			"finished_at":  finished,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&courseModels.CourseContent{}).Where("id = ?", job.ContentID).Updates(map[string]interface{}{
			"video_url":    outputs.ManifestURL,
			"image_url":    outputs.ThumbnailURL,
			"duration_sec": outputs.DurationSec,
		}).Error
	})
	if txErr != nil {
		r.markFailed(job.ID, "save outputs: "+txErr.Error())
		return txErr
	}

	metrics.VideoJobs.WithLabelValues(platform.VideoJobCompleted).Inc()
	r.finished(job.ID)
	log.Printf("[VIDEO-PIPELINE] job %d completed in %s", job.ID, finished.Sub(started).Round(time.Millisecond))
	return nil
}

func (r *Runner) markFailed(jobID uint, reason string) {
	now := time.Now()
	if err := r.db.Model(&platform.VideoJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":      platform.VideoJobFailed,
		"error":       reason,
		"finished_at": now,
	}).Error; err != nil {
		log.Printf("[VIDEO-PIPELINE] could not mark job %d failed: %v", jobID, err)
	}
	metrics.VideoJobs.WithLabelValues(platform.VideoJobFailed).Inc()
	r.finished(jobID)
}

func (r *Runner) finished(jobID uint) {
	if r.OnFinish == nil {
		return
	}
	var job platform.VideoJob
	if err := r.db.First(&job, jobID).Error; err != nil {
		log.Printf("[VIDEO-PIPELINE] could not reload job %d: %v", jobID, err)
		return
	}
	r.OnFinish(job)
}

// MarkRejected fails a job that never got a worker slot
func MarkRejected(db *gorm.DB, jobID uint, reason error) {
	now := time.Now()
	db.Model(&platform.VideoJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":      platform.VideoJobFailed,
		"error":       reason.Error(),
		"finished_at": now,
	})
	metrics.VideoJobs.WithLabelValues(platform.VideoJobFailed).Inc()
}

// FailStale fails jobs stuck in PROCESSING since before now-olderThan
func FailStale(db *gorm.DB, olderThan time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-olderThan)
	result := db.Model(&platform.VideoJob{}).
		Where("status = ? AND started_at < ?", platform.VideoJobProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":      platform.VideoJobFailed,
			"error":       fmt.Sprintf("stale: no progress for %s", olderThan),
			"finished_at": now,
		})
	return result.RowsAffected, result.Error
}
