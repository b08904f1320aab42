// Package models defines server-side data models persisted in the database.
package models

import "time"

// ID identifies a persisted record. IDs are assigned by the database and are
// never reused for domain data; 0 is reserved as the "no record" / root value.
type ID int64

// User is a registered account. Records are immutable after creation.
type User struct {
	ID    ID
	Email string
	// PasswordDigest is the one-way digest of the user's password. The raw
	// password is never stored.
	PasswordDigest []byte
	CreatedAt      time.Time
}
