package activity

import "time"

// Entry is one row of the activity feed. Inserts fire a Postgres NOTIFY on
// the partnerhub_activity channel via a table trigger.
type Entry struct {
	ID             int64     `json:"id" db:"id"`
	ActorID        string    `json:"actor_id" db:"actor_id"`
	SupervisorCode *string   `json:"supervisor_code,omitempty" db:"supervisor_code"`
	Action         string    `json:"action" db:"action"`
	Subject        *string   `json:"subject,omitempty" db:"subject"`
	Details        *string   `json:"details,omitempty" db:"details"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Feed is a page of the activity feed with the scoped total.
type Feed struct {
	Entries []*Entry `json:"entries"`
	Total   int64    `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}
