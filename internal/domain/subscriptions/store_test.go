package subscriptions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Subscription{}))
	return NewStore(db)
}

func record(ref string, createdAt time.Time) *Subscription {
	return &Subscription{
		Email:          "user@test.com",
		PlanID:         "basic",
		PlanName:       "Basic",
		Amount:         2500,
		PaymentRef:     ref,
		StreamURL:      "http://localhost:8000/stream/tok" + ref,
		ExpirationDate: createdAt.AddDate(0, 1, 0),
		Status:         StatusActive,
		CreatedAt:      createdAt,
	}
}

func TestStoreCreateAssignsID(t *testing.T) {
	store := newTestStore(t)

	sub := record("ref1", time.Now().UTC())
	require.NoError(t, store.Create(context.Background(), sub))
	require.NotEqual(t, uuid.Nil, sub.ID)

	found, err := store.FindByPaymentRef(context.Background(), "ref1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, sub.ID, found.ID)
}

func TestStoreRejectsDuplicatePaymentRef(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, store.Create(context.Background(), record("ref1", now)))

	dup := record("ref1", now)
	dup.StreamURL = "http://localhost:8000/stream/otherTokenXY"
	err := store.Create(context.Background(), dup)
	require.ErrorIs(t, err, ErrDuplicatePaymentRef)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStoreFindByPaymentRefMissing(t *testing.T) {
	store := newTestStore(t)

	found, err := store.FindByPaymentRef(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(context.Background(), record("ref-old", base)))
	require.NoError(t, store.Create(context.Background(), record("ref-mid", base.Add(time.Hour))))
	require.NoError(t, store.Create(context.Background(), record("ref-new", base.Add(2*time.Hour))))

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "ref-new", all[0].PaymentRef)
	require.Equal(t, "ref-mid", all[1].PaymentRef)
	require.Equal(t, "ref-old", all[2].PaymentRef)
}

func TestStoreUpdateStatus(t *testing.T) {
	store := newTestStore(t)
	sub := record("ref1", time.Now().UTC())
	require.NoError(t, store.Create(context.Background(), sub))

	require.NoError(t, store.UpdateStatus(context.Background(), sub.ID, StatusSuspended))

	found, err := store.FindByPaymentRef(context.Background(), "ref1")
	require.NoError(t, err)
	require.Equal(t, StatusSuspended, found.Status)
	// everything else untouched
	require.Equal(t, sub.StreamURL, found.StreamURL)
	require.Equal(t, sub.Amount, found.Amount)

	err = store.UpdateStatus(context.Background(), uuid.New(), StatusActive)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	sub := record("ref1", time.Now().UTC())
	require.NoError(t, store.Create(context.Background(), sub))

	require.NoError(t, store.Delete(context.Background(), sub.ID))

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)

	err = store.Delete(context.Background(), sub.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
