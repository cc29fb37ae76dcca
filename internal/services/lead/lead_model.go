package lead

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses form a fixed lifecycle enum. b_contact is "before contact",
// the state every captured lead starts in.
const (
	StatusBeforeContact = "b_contact"
	StatusAfterContact  = "a_contact"
	StatusArchive       = "archive"
)

// ValidStatus reports whether s is a member of the lead status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusBeforeContact, StatusAfterContact, StatusArchive:
		return true
	}
	return false
}

// Lead is a captured contact from a partner page.
type Lead struct {
	LeadID         uuid.UUID  `json:"lead_id" db:"lead_id"`
	PageID         *uuid.UUID `json:"page_id,omitempty" db:"page_id"`
	OwnerID        string     `json:"owner_id" db:"owner_id"`
	SupervisorCode *string    `json:"supervisor_code,omitempty" db:"supervisor_code"`
	LeadType       string     `json:"lead_type" db:"lead_type"`
	Name           *string    `json:"name,omitempty" db:"name"`
	Email          string     `json:"email" db:"email"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Status         string     `json:"status" db:"status"`
	LeadDate       time.Time  `json:"lead_date" db:"lead_date"`
	LeadTime       string     `json:"lead_time" db:"lead_time"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// ListFilter carries the optional caller-supplied filters for lead listing.
// Every set field becomes a separate parameterized AND conjunct.
type ListFilter struct {
	Status         string
	Source         string // lead_type
	Creator        string // owner_id
	SupervisorCode string
	Search         string // substring match over name and email
}

// CreateLeadRequest captures payload for the public lead capture endpoint
type CreateLeadRequest struct {
	PageID string  `json:"page_id" validate:"required"`
	Name   *string `json:"name,omitempty"`
	Email  string  `json:"email" validate:"required,email"`
	Phone  *string `json:"phone,omitempty"`
}

// StatusChangeResult is the outcome of a status transition attempt. A
// non-owner attempt is a routine occurrence from stale client state, so it
// comes back as data (Authorized=false) rather than an error.
type StatusChangeResult struct {
	Authorized bool   `json:"hasPermission"`
	LeadID     string `json:"lead_id,omitempty"`
	Status     string `json:"status,omitempty"`
}
