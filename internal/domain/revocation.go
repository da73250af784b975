package domain

import "time"

// RevokedToken records the invalidation of a single issued token. Rows are
// insert-only; once the token's natural expiry passes the record is eligible
// for garbage collection.
type RevokedToken struct {
	Token     string
	RevokedAt time.Time
	ExpiresAt time.Time
	Reason    string
}
