package utils

import (
	"strings"
	"testing"
	"time"

	"learnhub/models"
	"learnhub/models/billing"
	courseModels "learnhub/models/course"
	"learnhub/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	sent chan sentMail
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan sentMail, 10)}
}

func (m *recordingMailer) Send(toEmail, _ string, subject, htmlBody string) error {
	m.sent <- sentMail{to: toEmail, subject: subject, body: htmlBody}
	return nil
}

func (m *recordingMailer) next(t *testing.T) sentMail {
	t.Helper()
	select {
	case s := <-m.sent:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no email was sent")
		return sentMail{}
	}
}

func useMailer(t *testing.T) *recordingMailer {
	t.Helper()
	m := newRecordingMailer()
	prev := DefaultMailer
	DefaultMailer = m
	t.Cleanup(func() { DefaultMailer = prev })
	return m
}

func TestRound2AndPercentage(t *testing.T) {
	assert.Equal(t, 3.14, Round2(3.14159))
	assert.Equal(t, 2.68, Round2(2.675000001))
	assert.Equal(t, 0.0, Percentage(4, 0))
	assert.Equal(t, 33.33, Percentage(1, 3))
}

func TestGenerateCertificateNumber(t *testing.T) {
	n := GenerateCertificateNumber()
	assert.Regexp(t, `^CERT-[0-9A-F]{8}$`, n)
	assert.NotEqual(t, n, GenerateCertificateNumber())
	assert.Len(t, NewUploadKey(), 32)
}

func TestPaymentReceiptEmail(t *testing.T) {
	m := useMailer(t)
	SendPaymentReceiptEmail("ada@learnhub.test", "Ada", "Go <Advanced>", 12,
		decimal.RequireFromString("100"), decimal.RequireFromString("20"), decimal.RequireFromString("80"))

	mail := m.next(t)
	assert.Equal(t, "ada@learnhub.test", mail.to)
	assert.Equal(t, "Receipt for Go <Advanced>", mail.subject)
	assert.Contains(t, mail.body, "Payment #12")
	assert.Contains(t, mail.body, "80.00")
	assert.Contains(t, mail.body, "Go &lt;Advanced&gt;")
}

func TestExpireCoupons(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.NoError(t, db.Create(&billing.Coupon{Code: "OLD", DiscountType: billing.DiscountFixed, IsActive: true, ExpiresAt: &past}).Error)
	require.NoError(t, db.Create(&billing.Coupon{Code: "NEW", DiscountType: billing.DiscountFixed, IsActive: true, ExpiresAt: &future}).Error)
	require.NoError(t, db.Create(&billing.Coupon{Code: "FOREVER", DiscountType: billing.DiscountFixed, IsActive: true}).Error)

	n, err := ExpireCoupons(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var old billing.Coupon
	require.NoError(t, db.Where("code = ?", "OLD").First(&old).Error)
	assert.False(t, old.IsActive)
}

func TestSendInactivityRemindersOncePerEnrollment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	m := useMailer(t)
	now := time.Now()
	stale := now.Add(-8 * 24 * time.Hour)
	recent := now.Add(-time.Hour)

	idleUser := testutil.CreateUser(t, db, "Idle Learner", models.RoleUser, 0)
	busyUser := testutil.CreateUser(t, db, "Busy Learner", models.RoleUser, 0)
	course := courseModels.Course{Title: "Databases", Status: courseModels.CourseStatusActive}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: idleUser.ID, CourseID: course.ID, Status: courseModels.EnrollmentInProgress, Progress: 40, LastActivityAt: &stale}).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: busyUser.ID, CourseID: course.ID, Status: courseModels.EnrollmentInProgress, Progress: 40, LastActivityAt: &recent}).Error)

	n, err := SendInactivityReminders(db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	mail := m.next(t)
	assert.Equal(t, idleUser.Email, mail.to)
	assert.True(t, strings.HasSuffix(mail.subject, "Databases"))

	n, err = SendInactivityReminders(db, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
