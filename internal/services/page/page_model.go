package page

import (
	"time"

	"github.com/google/uuid"
)

// Page subtypes
const (
	TypeSales = "sales"
	TypeEbook = "ebook"
)

// Page is a partner landing page with its traffic counters.
type Page struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	SupervisorCode *string   `json:"supervisor_code,omitempty" db:"supervisor_code"`
	PageType       string    `json:"page_type" db:"page_type"`
	Title          string    `json:"title" db:"title"`
	Slug           string    `json:"slug" db:"slug"`
	Status         string    `json:"status" db:"status"`
	Visitors       int64     `json:"visitors" db:"visitors"`
	Leads          int64     `json:"leads" db:"leads"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayStatus maps the stored lifecycle status onto what partners see:
// an active page reads as published, a pending one stays pending, anything
// else is a draft.
func (p *Page) DisplayStatus() string {
	switch p.Status {
	case "active":
		return "published"
	case "pending":
		return "pending"
	default:
		return "draft"
	}
}

// PageView is a list entry decorated for the caller.
type PageView struct {
	Page
	DisplayStatus string `json:"display_status"`
	IsOwnedByUser bool   `json:"is_owned_by_user"`
}

// Summary carries per-list counters over the returned pages.
type Summary struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Pending   int `json:"pending"`
	Draft     int `json:"draft"`
	Ebook     int `json:"ebook"`
	Sales     int `json:"sales"`
}

// PageList is the full listing payload.
type PageList struct {
	Pages   []PageView `json:"pages"`
	Summary Summary    `json:"summary"`
}

// ListFilter carries the optional caller-supplied filters for page listing
type ListFilter struct {
	Status string // stored status value
	Type   string // sales or ebook
	Search string // substring match over title and slug
}
