package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stored status values. Expiry is never stored: it is derived from
// ExpirationDate against the clock whenever a record is displayed.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"

	// DisplayExpired only ever appears in derived output.
	DisplayExpired = "expired"
)

// Subscription is one purchased, time-bounded access grant. Everything
// except Status is immutable after creation; a renewal is a new record.
type Subscription struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"not null" json:"email"`
	PlanID         string    `gorm:"column:plan_id;not null" json:"plan_id"`
	PlanName       string    `gorm:"column:plan_name" json:"plan_name"`
	Amount         int64     `json:"amount"` // NGN, plan price at purchase time
	PaymentRef     string    `gorm:"column:payment_ref;not null;uniqueIndex:idx_subscriptions_payment_ref" json:"payment_ref"`
	StreamURL      string    `gorm:"column:stream_url;not null;uniqueIndex:idx_subscriptions_stream_url" json:"stream_url"`
	ExpirationDate time.Time `gorm:"column:expiration_date;not null" json:"expiration_date"`
	Status         string    `gorm:"not null;default:'active'" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate assigns the store-owned id. Works the same on postgres
// and the sqlite driver used in tests.
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the grant has lapsed at the given instant.
func (s *Subscription) IsExpired(now time.Time) bool {
	return !s.ExpirationDate.After(now)
}

// EffectiveStatus is what admins (and any access check) should see:
// an expired-but-active record reads as expired without ever being
// mutated. Suspension wins over expiry.
func (s *Subscription) EffectiveStatus(now time.Time) string {
	if s.Status == StatusSuspended {
		return StatusSuspended
	}
	if s.IsExpired(now) {
		return DisplayExpired
	}
	return s.Status
}

// ValidStatus reports whether v is a storable status value.
func ValidStatus(v string) bool {
	return v == StatusActive || v == StatusSuspended
}
