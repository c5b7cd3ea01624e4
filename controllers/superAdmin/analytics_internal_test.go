package superAdminController

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyBuckets(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC), // outside the window
	}

	buckets := dailyBuckets(stamps, today, 3)
	require.Len(t, buckets, 3)
	assert.Equal(t, DailyCount{Date: "2024-03-08", Count: 1}, buckets[0])
	assert.Equal(t, DailyCount{Date: "2024-03-09", Count: 0}, buckets[1])
	assert.Equal(t, DailyCount{Date: "2024-03-10", Count: 2}, buckets[2])
}

func TestDailyBucketsUsesTodaysLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, ist)

	// 20:00 UTC on the 9th is already the 10th in IST
	buckets := dailyBuckets([]time.Time{time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)}, today, 2)
	assert.Equal(t, int64(0), buckets[0].Count)
	assert.Equal(t, int64(1), buckets[1].Count)
}
