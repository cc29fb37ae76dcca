package supervisor

import "time"

// SupervisorCode is a row in the supervisor directory. The description holds
// the supervisor's display name and is the reverse lookup key.
type SupervisorCode struct {
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
