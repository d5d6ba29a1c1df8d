package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshSession is the server-side record backing an opaque refresh token.
//
// A session is never physically deleted on revocation; revoked rows are kept
// for audit and pruned by a maintenance job once long expired.
type RefreshSession struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	RefreshToken uuid.UUID  `json:"refresh_token" db:"refresh_token"`
	UserAgent    string     `json:"user_agent" db:"user_agent"`
	IP           string     `json:"ip" db:"ip"`
	IsRevoked    bool       `json:"is_revoked" db:"is_revoked"`
	RevokedAt    *time.Time `json:"revoked_at" db:"revoked_at"`
	ExpiresAt    time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Valid reports whether the session may still be redeemed. Revocation and
// expiry are independent checks; either one failing invalidates the session.
func (s *RefreshSession) Valid(now time.Time) bool {
	return !s.IsRevoked && now.Before(s.ExpiresAt)
}
