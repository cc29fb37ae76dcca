package chapter

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction of a chapter move within its ebook.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a raw direction value
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case DirectionUp, DirectionDown:
		return Direction(raw), nil
	default:
		return "", fmt.Errorf("invalid direction: %q", raw)
	}
}

// Ebook is an ordered collection of chapters owned by a partner.
type Ebook struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Chapters    []*Chapter `json:"chapters,omitempty" db:"-"`
}

// Chapter positions form a contiguous zero-based sequence per ebook,
// enforced unique at the schema level.
type Chapter struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EbookID   uuid.UUID `json:"ebook_id" db:"ebook_id"`
	Title     string    `json:"title" db:"title"`
	Content   *string   `json:"content,omitempty" db:"content"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MovedChapter is one half of a reorder result.
type MovedChapter struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

// CreateEbookRequest captures payload for creating an ebook
type CreateEbookRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
}

// NewChapter is one chapter of an append request
type NewChapter struct {
	Title   string  `json:"title" validate:"required,min=1,max=255"`
	Content *string `json:"content,omitempty"`
}

// AddChaptersRequest appends chapters at the next free positions
type AddChaptersRequest struct {
	Chapters []NewChapter `json:"chapters" validate:"required,min=1"`
}
