package subscriptions

import "time"

// ExpiresFrom advances start by exactly one calendar month.
//
// Month-end rule: when the target month is shorter, the overflow rolls
// into the following month rather than clamping to its last day, i.e.
// 2024-01-31 expires 2024-03-02. This matches how the checkout has
// always dated expirations, so existing records stay consistent.
func ExpiresFrom(start time.Time) time.Time {
	return start.AddDate(0, 1, 0)
}
