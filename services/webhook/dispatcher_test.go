package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"learnhub/models/platform"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"event":"course.published"}`)
	sig := Sign("s3cret", body)

	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
	assert.True(t, Verify("s3cret", body, sig))
	assert.False(t, Verify("other", body, sig))
	assert.False(t, Verify("s3cret", []byte(`{}`), sig))
}

func TestDeliverSendsSignedEnvelope(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var gotHeaders http.Header
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := platform.Webhook{URL: srv.URL, Secret: "whsec", Events: "*", IsActive: true}
	require.NoError(t, db.Create(&hook).Error)

	d := NewDispatcher(db, time.Second, 3, time.Millisecond)
	delivery, err := d.Deliver(context.Background(), hook, "enrollment.created", map[string]uint{"course_id": 4})
	require.NoError(t, err)

	assert.Equal(t, platform.DeliverySuccess, delivery.Status)
	assert.Equal(t, 1, delivery.Attempts)
	assert.Equal(t, http.StatusNoContent, delivery.LastStatusCode)

	assert.Equal(t, "enrollment.created", gotHeaders.Get(HeaderEvent))
	assert.Equal(t, delivery.DeliveryID, gotHeaders.Get(HeaderDelivery))
	assert.True(t, Verify("whsec", gotBody, gotHeaders.Get(HeaderSignature)))

	var env struct {
		ID    string         `json:"id"`
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &env))
	assert.Equal(t, delivery.DeliveryID, env.ID)
	assert.Equal(t, 4, env.Data["course_id"])

	var stored platform.WebhookDelivery
	require.NoError(t, db.Where("delivery_id = ?", delivery.DeliveryID).First(&stored).Error)
	assert.Equal(t, platform.DeliverySuccess, stored.Status)
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hook := platform.Webhook{URL: srv.URL, Secret: "x", Events: "*", IsActive: true}
	require.NoError(t, db.Create(&hook).Error)

	d := NewDispatcher(db, time.Second, 3, time.Millisecond)
	delivery, err := d.Deliver(context.Background(), hook, "payment.completed", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, delivery.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDeliverDoesNotRetryClientErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	hook := platform.Webhook{URL: srv.URL, Secret: "x", Events: "*", IsActive: true}
	require.NoError(t, db.Create(&hook).Error)

	d := NewDispatcher(db, time.Second, 5, time.Millisecond)
	delivery, err := d.Deliver(context.Background(), hook, "payment.completed", nil)
	require.Error(t, err)
	assert.Equal(t, platform.DeliveryFailed, delivery.Status)
	assert.Equal(t, http.StatusGone, delivery.LastStatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var stored platform.WebhookDelivery
	require.NoError(t, db.Where("delivery_id = ?", delivery.DeliveryID).First(&stored).Error)
	assert.Equal(t, platform.DeliveryFailed, stored.Status)
	assert.NotEmpty(t, stored.LastError)
}

func TestDispatchOnlyHitsActiveSubscribers(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, db.Create(&platform.Webhook{URL: srv.URL, Secret: "a", Events: "course.published, enrollment.created", IsActive: true}).Error)
	require.NoError(t, db.Create(&platform.Webhook{URL: srv.URL, Secret: "b", Events: "*", IsActive: true}).Error)
	require.NoError(t, db.Create(&platform.Webhook{URL: srv.URL, Secret: "c", Events: "payment.completed", IsActive: true}).Error)
	require.NoError(t, db.Create(&platform.Webhook{URL: srv.URL, Secret: "d", Events: "*", IsActive: false}).Error)

	d := NewDispatcher(db, time.Second, 1, time.Millisecond)
	n, err := d.Dispatch(context.Background(), "enrollment.created", map[string]int{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	var count int64
	db.Model(&platform.WebhookDelivery{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
