package subscriptions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicatePaymentRef is returned by Create when a record for the
// same gateway reference already exists. Callers treat it as "already
// provisioned", not as a failure.
var ErrDuplicatePaymentRef = errors.New("subscription already exists for payment reference")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create persists a new record. The unique index on payment_ref is the
// idempotency backstop for concurrent webhook retries; requires the
// gorm connection to be opened with TranslateError.
func (s *Store) Create(ctx context.Context, sub *Subscription) error {
	err := s.db.WithContext(ctx).Create(sub).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePaymentRef
	}
	return err
}

func (s *Store) FindByPaymentRef(ctx context.Context, ref string) (*Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).Where("payment_ref = ?", ref).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	var sub Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// List returns every record, newest first. The admin surface is a
// full-scan read model on purpose; there is no pagination.
func (s *Store) List(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus is the only mutation path for existing records.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := s.db.WithContext(ctx).Model(&Subscription{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a record permanently. No soft-delete.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
