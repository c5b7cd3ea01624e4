package platform

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	VideoJobQueued     = "QUEUED"
	VideoJobProcessing = "PROCESSING"
	VideoJobCompleted  = "COMPLETED"
	VideoJobFailed     = "FAILED"
)

// VideoJob tracks the processing of one uploaded video
type VideoJob struct {
	gorm.Model
	ContentID   uint           `json:"content_id" gorm:"index;not null"`
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	SourceURL   string         `json:"source_url" gorm:"not null"`
	UploadKey   string         `json:"upload_key" gorm:"type:varchar(64);index"`
	Status      string         `json:"status" gorm:"type:varchar(20);default:'QUEUED'"`
	CurrentStep string         `json:"current_step"`
	Outputs     datatypes.JSON `json:"outputs"`
	Error       string         `json:"error" gorm:"type:text"`
	Attempts    int            `json:"attempts" gorm:"default:0"`
	StartedAt   *time.Time     `json:"started_at"`
	FinishedAt  *time.Time     `json:"finished_at"`
}
