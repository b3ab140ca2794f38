package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iptv-app/internal/domain/plans"
	"iptv-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var adminClock = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (*gin.Engine, *subscriptions.Store, *plans.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&plans.Plan{}, &subscriptions.Subscription{}))
	require.NoError(t, plans.EnsureDefaults(db))

	subStore := subscriptions.NewStore(db)
	planStore := plans.NewStore(db)

	h := NewHandler(subStore, planStore)
	h.now = func() time.Time { return adminClock }

	r := gin.New()
	r.GET("/admin/subscriptions", h.ListSubscriptions)
	r.GET("/admin/stats", h.Stats)
	r.PUT("/admin/subscriptions/:id/status", h.UpdateStatus)
	r.DELETE("/admin/subscriptions/:id", h.DeleteSubscription)
	r.GET("/admin/settings", h.GetSettings)
	r.PUT("/admin/settings", h.UpdateSettings)
	return r, subStore, planStore
}

func seed(t *testing.T, store *subscriptions.Store, ref, status string, createdAt, expires time.Time) *subscriptions.Subscription {
	t.Helper()
	sub := &subscriptions.Subscription{
		Email:          ref + "@test.com",
		PlanID:         "basic",
		PlanName:       "Basic",
		Amount:         2500,
		PaymentRef:     ref,
		StreamURL:      "http://localhost:8000/stream/token" + ref,
		ExpirationDate: expires,
		Status:         status,
		CreatedAt:      createdAt,
	}
	require.NoError(t, store.Create(context.Background(), sub))
	return sub
}

func seedThree(t *testing.T, store *subscriptions.Store) {
	// newest: active, unexpired
	seed(t, store, "ref-fresh", subscriptions.StatusActive, adminClock.Add(-time.Hour), adminClock.Add(29*24*time.Hour))
	// middle: active but lapsed
	seed(t, store, "ref-lapsed", subscriptions.StatusActive, adminClock.Add(-40*24*time.Hour), adminClock.Add(-10*24*time.Hour))
	// oldest: suspended, unexpired
	seed(t, store, "ref-suspended", subscriptions.StatusSuspended, adminClock.Add(-48*time.Hour), adminClock.Add(28*24*time.Hour))
}

func TestListSubscriptionsNewestFirstWithDerivedStatus(t *testing.T) {
	r, store, _ := newTestRouter(t)
	seedThree(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/subscriptions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []AdminSubscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)

	require.Equal(t, "ref-fresh", out[0].PaymentRef)
	require.Equal(t, "ref-suspended", out[1].PaymentRef)
	require.Equal(t, "ref-lapsed", out[2].PaymentRef)

	require.Equal(t, subscriptions.StatusActive, out[0].DisplayStatus)
	require.Equal(t, subscriptions.StatusSuspended, out[1].DisplayStatus)
	// stored active, shown expired; the row itself is untouched
	require.Equal(t, subscriptions.DisplayExpired, out[2].DisplayStatus)
	require.Equal(t, subscriptions.StatusActive, out[2].Status)
}

func TestStatsComputedAtReadTime(t *testing.T) {
	r, store, _ := newTestRouter(t)
	seedThree(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats AdminStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.Active, "only active and unexpired counts")
	require.Equal(t, 1, stats.Expired)
	require.Equal(t, int64(7500), stats.TotalRevenue)
}

func TestUpdateStatus(t *testing.T) {
	r, store, _ := newTestRouter(t)
	sub := seed(t, store, "ref1", subscriptions.StatusActive, adminClock, adminClock.Add(30*24*time.Hour))

	body := bytes.NewReader([]byte(`{"status":"suspended"}`))
	req := httptest.NewRequest(http.MethodPut, "/admin/subscriptions/"+sub.ID.String()+"/status", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	found, err := store.FindByPaymentRef(context.Background(), "ref1")
	require.NoError(t, err)
	require.Equal(t, subscriptions.StatusSuspended, found.Status)
}

func TestUpdateStatusRejectsBadValues(t *testing.T) {
	r, store, _ := newTestRouter(t)
	sub := seed(t, store, "ref1", subscriptions.StatusActive, adminClock, adminClock.Add(30*24*time.Hour))

	for _, status := range []string{"expired", "deleted", ""} {
		body := bytes.NewReader([]byte(`{"status":"` + status + `"}`))
		req := httptest.NewRequest(http.MethodPut, "/admin/subscriptions/"+sub.ID.String()+"/status", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "status=%q", status)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	r, store, _ := newTestRouter(t)
	sub := seed(t, store, "ref1", subscriptions.StatusActive, adminClock, adminClock.Add(30*24*time.Hour))

	// no confirm parameter: nothing happens
	req := httptest.NewRequest(http.MethodDelete, "/admin/subscriptions/"+sub.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1, "record must survive an unconfirmed delete")

	// confirmed: gone for good
	req = httptest.NewRequest(http.MethodDelete, "/admin/subscriptions/"+sub.ID.String()+"?confirm=true", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	all, err = store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestDeleteUnknownID(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/admin/subscriptions/0f0e0d0c-0b0a-0908-0706-050403020100?confirm=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	r, _, planStore := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "basic")

	payload := `{"plans":[{"id":"basic","price":3000,"stream_url":"http://cdn.example.com/basic.m3u8"}]}`
	req := httptest.NewRequest(http.MethodPut, "/admin/settings", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// the edit is durable, not UI state
	basic, err := planStore.Get(context.Background(), "basic")
	require.NoError(t, err)
	require.Equal(t, int64(3000), basic.Price)
	require.Equal(t, "http://cdn.example.com/basic.m3u8", basic.StreamURL)
}

func TestSettingsRejectsUnknownTier(t *testing.T) {
	r, _, planStore := newTestRouter(t)

	payload := `{"plans":[{"id":"platinum","price":9000,"stream_url":"http://cdn.example.com/p.m3u8"}]}`
	req := httptest.NewRequest(http.MethodPut, "/admin/settings", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	rows, err := planStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
}
