package session

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"time"
)

// Session is a server-issued, time-bounded proof of a successful login.
// It is owned exclusively by the Manager: written once at creation, read many
// times, removed on logout or by the cleanup sweep.
type Session struct {
	UserID    int64     `json:"user_id"`
	ID        string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires"`
	CreatedAt time.Time `json:"created"`
}

// IsExpired reports whether the session's expiry is in the past. An expired
// session must never be treated as valid, even before the sweep removes it.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// record is the persisted form: a fixed 4-field object with epoch-millis
// timestamps, keyed by session id in the store.
type record struct {
	UserID  int64  `json:"user_id"`
	ID      string `json:"session_id"`
	Expires int64  `json:"expires"`
	Created int64  `json:"created"`
}

func encodeSession(s Session) ([]byte, error) {
	return json.Marshal(record{
		UserID:  s.UserID,
		ID:      s.ID,
		Expires: s.ExpiresAt.UnixMilli(),
		Created: s.CreatedAt.UnixMilli(),
	})
}

func decodeSession(data []byte) (Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Session{}, err
	}
	return Session{
		UserID:    r.UserID,
		ID:        r.ID,
		ExpiresAt: time.UnixMilli(r.Expires),
		CreatedAt: time.UnixMilli(r.Created),
	}, nil
}

const (
	idLength    = 7
	idAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// newID samples short random alphanumeric ids until exists reports a miss.
// The probe runs inside the caller's write transaction, so the returned id is
// unique among sessions live at commit time.
func newID(exists func(string) bool) string {
	for {
		id := randAlphanumeric(idLength)
		if !exists(id) {
			return id
		}
	}
}

func randAlphanumeric(n int) string {
	max := big.NewInt(int64(len(idAlphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process has no entropy source;
			// nothing sensible to continue with.
			panic(err)
		}
		b[i] = idAlphabet[v.Int64()]
	}
	return string(b)
}
