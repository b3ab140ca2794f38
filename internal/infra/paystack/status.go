package paystack

import "strings"

// Charge outcomes the workflow distinguishes. Anything unknown maps to
// failed so a surprise status can never provision access.
const (
	ChargeSuccess   = "success"
	ChargeFailed    = "failed"
	ChargeAbandoned = "abandoned"
)

// NormalizeChargeStatus maps Paystack transaction statuses onto the
// three outcomes the provisioning workflow cares about.
func NormalizeChargeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return ChargeSuccess
	case "abandoned", "cancelled":
		// buyer closed the checkout; not an error, nothing captured
		return ChargeAbandoned
	case "failed", "reversed":
		return ChargeFailed
	default:
		return ChargeFailed
	}
}
