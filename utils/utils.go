package utils

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns part/total*100 rounded to two decimals, 0 when total is 0
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// GenerateCertificateNumber returns a CERT-XXXXXXXX identifier
func GenerateCertificateNumber() string {
	return "CERT-" + strings.ToUpper(uuid.NewString()[:8])
}

// NewUploadKey is a random name for stored media
func NewUploadKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
