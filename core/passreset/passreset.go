package passreset

import (
	"crypto/rand"
	"math/big"
	"time"
)

// tokenLength matches the URL-safe token embedded in reset links.
const tokenLength = 36

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultTokenTTL is how long an issued token stays redeemable. Expired
// tokens are removed lazily on lookup.
const DefaultTokenTTL = 24 * time.Hour

// Request is a single pending password reset, keyed by its token.
type Request struct {
	AccountID int64     `json:"account_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// randToken returns a tokenLength string drawn from tokenAlphabet. It panics
// when the OS entropy source fails, as no caller can act on that.
func randToken() string {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("passreset: entropy source unavailable: " + err.Error())
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf)
}
