package domain

import "time"

// Actor is an organizer empowered to confirm or reject payment records.
// Membership in the actors table is the admin allow-list.
type Actor struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
