package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CourseStatusDraft    = "DRAFT"
	CourseStatusActive   = "ACTIVE"
	CourseStatusInactive = "INACTIVE"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Author       string          `json:"author"`
	InstructorID uint            `json:"instructor_id" gorm:"index;default:0"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Duration     int64           `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string          `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	Rating       float64         `json:"rating" gorm:"default:0"`       // average of active reviews
	ReviewCount  int             `json:"review_count" gorm:"default:0"`
	ThumbnailURL string          `json:"thumbnail_url"`
	IsPublished  bool            `json:"is_published" gorm:"default:false"`
	IsDeleted    bool            `json:"-" gorm:"default:false"`
}

// IsFree reports whether the course can be joined without checkout
func (c Course) IsFree() bool {
	return !c.Price.IsPositive()
}
