package utils

import (
	"log"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/services/video"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InactivityWindow is how long an in-progress enrollment may sit idle before a reminder
const InactivityWindow = 7 * 24 * time.Hour

// InitializeScheduler registers the periodic jobs and starts the cron runner.
// The caller stops it on shutdown.
func InitializeScheduler() *cron.Cron {
	log.Println("[SCHEDULER] Initializing scheduler...")

	c := cron.New()

	c.AddFunc("@hourly", func() {
		n, err := ExpireCoupons(database.Database.Db, time.Now())
		if err != nil {
			log.Printf("[SCHEDULER] Error expiring coupons: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[SCHEDULER] Deactivated %d expired coupons", n)
		}
	})

	c.AddFunc("*/10 * * * *", func() {
		n, err := video.FailStale(database.Database.Db, config.AppConfig.VideoStaleAfter, time.Now())
		if err != nil {
			log.Printf("[SCHEDULER] Error failing stale video jobs: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[SCHEDULER] Marked %d stale video jobs as failed", n)
		}
	})

	// Run daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SCHEDULER] Running inactivity reminders...")
		n, err := SendInactivityReminders(database.Database.Db, time.Now())
		if err != nil {
			log.Printf("[SCHEDULER] Error sending inactivity reminders: %v", err)
			return
		}
		log.Printf("[SCHEDULER] Sent %d inactivity reminders", n)
	})

	c.Start()
	log.Println("[SCHEDULER] Scheduler started - coupons hourly, video jobs every 10 minutes, reminders daily at 9 AM")
	return c
}

// ExpireCoupons deactivates active coupons whose expiry has passed
func ExpireCoupons(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&billing.Coupon{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// SendInactivityReminders emails learners whose in-progress enrollment has been
// idle for InactivityWindow. Each enrollment is reminded at most once.
func SendInactivityReminders(db *gorm.DB, now time.Time) (int, error) {
	cutoff := now.Add(-InactivityWindow)

	var idle []courseModels.Enrollment
	if err := db.
		Where("status = ? AND is_deleted = ? AND reminder_sent_at IS NULL", courseModels.EnrollmentInProgress, false).
		Where("COALESCE(last_activity_at, updated_at) < ?", cutoff).
		Find(&idle).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, enrollment := range idle {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ? AND is_blocked = ?", enrollment.UserID, false, false).First(&user).Error; err != nil {
			continue
		}
		var course courseModels.Course
		if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
			continue
		}

		SendInactivityReminderEmail(user.Email, user.Name, course.Title, enrollment.Progress)

		db.Model(&enrollment).Update("reminder_sent_at", now)
		sent++
	}
	return sent, nil
}
