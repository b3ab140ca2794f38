package plans

import "time"

// Plan is one of the fixed subscription tiers. The row doubles as the
// editable settings for that tier: price and upstream playlist URL are
// read from here at charge time, never from UI state.
type Plan struct {
	ID        string    `gorm:"primaryKey" json:"id"` // "basic" | "premium" | "ultimate"
	Name      string    `json:"name"`
	Price     int64     `gorm:"not null" json:"price"` // NGN, whole naira
	StreamURL string    `gorm:"column:stream_url" json:"stream_url"`
	UpdatedAt time.Time `json:"updated_at"`
}
