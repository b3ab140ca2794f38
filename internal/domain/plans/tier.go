package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierBasic    = "basic"
	TierPremium  = "premium"
	TierUltimate = "ultimate"
)

// Defaults returns the seed rows for a fresh database. Prices and
// playlist URLs are editable afterwards through the admin settings API.
func Defaults() []Plan {
	return []Plan{
		{ID: TierBasic, Name: "Basic", Price: 2500, StreamURL: "http://your-server.com:8080/basic/playlist.m3u8"},
		{ID: TierPremium, Name: "Premium", Price: 4000, StreamURL: "http://your-server.com:8080/premium/playlist.m3u8"},
		{ID: TierUltimate, Name: "Ultimate", Price: 6000, StreamURL: "http://your-server.com:8080/ultimate/playlist.m3u8"},
	}
}

// ValidTier reports whether id names one of the configured tiers.
func ValidTier(id string) bool {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case TierBasic, TierPremium, TierUltimate:
		return true
	}
	return false
}
