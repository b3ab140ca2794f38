package plans

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id string) (*Plan, error) {
	var plan Plan
	if err := s.db.WithContext(ctx).Where("id = ?", strings.ToLower(strings.TrimSpace(id))).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Store) List(ctx context.Context) ([]Plan, error) {
	var out []Plan
	if err := s.db.WithContext(ctx).Order("price ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSettings overwrites the editable fields of one tier.
func (s *Store) UpdateSettings(ctx context.Context, id string, price int64, streamURL string) error {
	return s.db.WithContext(ctx).Model(&Plan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price":      price,
			"stream_url": streamURL,
		}).Error
}

// EnsureDefaults seeds any missing tier rows. Existing rows are left
// untouched so admin edits survive restarts.
func EnsureDefaults(db *gorm.DB) error {
	for _, p := range Defaults() {
		var existing Plan
		err := db.Where("id = ?", p.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
