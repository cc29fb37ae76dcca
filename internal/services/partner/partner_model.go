package partner

import (
	"strings"
	"time"
)

// Partner account statuses
const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusBlocked = "blocked"
)

// ValidStatus reports whether s is a member of the partner status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPending, StatusBlocked:
		return true
	}
	return false
}

// Partner is a user profile as seen by administration. The provider subject
// stays internal; it never leaves the API.
type Partner struct {
	ID             int64     `json:"id" db:"id"`
	ProviderSub    string    `json:"-" db:"provider_sub"`
	Email          string    `json:"email" db:"email"`
	FirstName      *string   `json:"first_name,omitempty" db:"first_name"`
	LastName       *string   `json:"last_name,omitempty" db:"last_name"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	Role           string    `json:"role" db:"role"`
	Status         string    `json:"status" db:"status"`
	SupervisorCode *string   `json:"supervisor_code,omitempty" db:"supervisor_code"`
	AdminComment   *string   `json:"admin_comment,omitempty" db:"admin_comment"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName joins first and last name the same way supervisor directory
// descriptions are written.
func (p *Partner) DisplayName() string {
	first, last := "", ""
	if p.FirstName != nil {
		first = *p.FirstName
	}
	if p.LastName != nil {
		last = *p.LastName
	}

	return strings.TrimSpace(first + " " + last)
}

// ListFilter carries caller-supplied filters for partner listing
type ListFilter struct {
	Status         string
	Role           string
	SupervisorCode string
	Search         string // substring match over names and email
	ExcludeUserID  string
}

// StatusCount is one per-status slice of the partner stats
type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int64  `json:"count" db:"count"`
}

// SupervisorRef is a directory entry visible to the caller
type SupervisorRef struct {
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`
}

// PartnerList is the full partner listing payload
type PartnerList struct {
	Partners    []*Partner      `json:"partners"`
	Stats       []StatusCount   `json:"stats"`
	Supervisors []SupervisorRef `json:"supervisors"`
}

// UpdatePartnerRequest captures the fields administration may change
type UpdatePartnerRequest struct {
	Status       *string `json:"status,omitempty"`
	AdminComment *string `json:"admin_comment,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
}

// UpdateProfileRequest captures the self-service profile fields
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}
