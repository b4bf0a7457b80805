package model

import (
	"time"

	"github.com/google/uuid"
)

// Stadium hosts sport events.  Its capacity bounds the number of active
// reservations of every event held there.
type Stadium struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Sport struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Team plays a single sport.  SportName is filled by joins.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SportID   uuid.UUID `json:"sport_id"`
	SportName string    `json:"sport_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
