package domain

import "time"

// Participant is a person buying tickets through the chat gateway. A row
// is created on first contact (notify address known, profile unknown) and
// completed on registration. Participants are never deleted.
type Participant struct {
	ID            int64
	Handle        string
	FullName      *string
	Phone         *string
	NotifyAddress *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Registered reports whether the participant has completed the
// registration form. Only registered participants may submit payments.
func (p *Participant) Registered() bool {
	return p != nil && p.FullName != nil && *p.FullName != ""
}
