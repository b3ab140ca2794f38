package provisioning

import (
	"crypto/hmac"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// TokenLength is fixed: stream URLs look like /stream/{12 alnum chars}
// and players in the wild depend on that shape.
const TokenLength = 12

// TokenGenerator derives opaque stream tokens. Identical inputs always
// produce the identical token; the caller varies the salt per purchase
// so a repeat buyer of the same plan gets a fresh URL. Without the
// server secret a token cannot be predicted from (email, plan).
type TokenGenerator struct {
	secret []byte
}

func NewTokenGenerator(secret string) *TokenGenerator {
	return &TokenGenerator{secret: []byte(secret)}
}

func (g *TokenGenerator) Generate(email, planID string, salt int64) string {
	var b strings.Builder
	for round := 0; b.Len() < TokenLength; round++ {
		mac := hmac.New(sha3.New256, g.secret)
		fmt.Fprintf(mac, "%s|%s|%d|%d", email, planID, salt, round)
		for _, c := range base64.StdEncoding.EncodeToString(mac.Sum(nil)) {
			if isAlnum(c) {
				b.WriteRune(c)
			}
		}
	}
	return b.String()[:TokenLength]
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
