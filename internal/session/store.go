// Package session implements server-side sessions backed by a key-value
// store. Every session occupies exactly one key `sess:<id>` holding the
// JSON-serialized record; the key TTL is derived from the cookie
// max-age and refreshed on every write or touch.
package session

import (
	"context"
	"errors"
	"time"
)

// DefaultMaxAgeMS is applied when a record carries no cookie max-age.
const DefaultMaxAgeMS int64 = 86400000 // 1 day

// ErrMalformedRecord is returned by Get when a stored value cannot be
// decoded. Distinguishable from the "no session" case, which is a nil
// record with a nil error.
var ErrMalformedRecord = errors.New("session: malformed record")

// Principal is the user identity carried inside a session record.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Cookie is the expiry policy stored with each session. MaxAge is in
// milliseconds, matching the cookie max-age the client receives.
type Cookie struct {
	MaxAge   int64  `json:"maxAge,omitempty"`
	Path     string `json:"path,omitempty"`
	HTTPOnly bool   `json:"httpOnly"`
	Secure   bool   `json:"secure"`
}

// Record is the session payload. It must round-trip through the store
// without loss of the user subfield or the cookie max-age.
type Record struct {
	Cookie Cookie     `json:"cookie"`
	User   *Principal `json:"user,omitempty"`
}

// NewRecord builds an empty record with the given cookie policy.
func NewRecord(maxAgeMS int64, secure bool) *Record {
	return &Record{
		Cookie: Cookie{
			MaxAge:   maxAgeMS,
			Path:     "/",
			HTTPOnly: true,
			Secure:   secure,
		},
	}
}

// TTL converts the cookie max-age to whole seconds, rounding up so a
// sub-second remainder still buys a full extra second. Absent or
// non-positive max-age falls back to DefaultMaxAgeMS.
func (r *Record) TTL() time.Duration {
	ms := r.Cookie.MaxAge
	if ms <= 0 {
		ms = DefaultMaxAgeMS
	}
	secs := (ms + 999) / 1000
	return time.Duration(secs) * time.Second
}

// Store is the session-persistence contract. Implementations never
// panic across this boundary; every failure comes back as an error.
type Store interface {
	// Get loads a record by session id. A missing session is (nil, nil),
	// not an error.
	Get(ctx context.Context, sid string) (*Record, error)
	// Set serializes the record and writes it with a fresh TTL,
	// replacing any prior value for the same id.
	Set(ctx context.Context, sid string, rec *Record) error
	// Destroy deletes the session. Deleting a missing session is not an
	// error.
	Destroy(ctx context.Context, sid string) error
	// Touch refreshes the TTL of an existing session without rewriting
	// its value. A no-op when the key is already gone.
	Touch(ctx context.Context, sid string, rec *Record) error
	// Clear removes every session. Best effort against a concurrently
	// mutating key space; administrative and test use only.
	Clear(ctx context.Context) error
}
