package types

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a catalog entry. SwapiID is set only for records imported from
// the SWAPI sync and is unique when present, so re-running the sync skips
// films that were already imported.
type Movie struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" example:"Solaris"`
	Description string    `json:"description"`
	Director    string    `json:"director" example:"Andréi Tarkovski"`
	Year        int       `json:"year" example:"1972"`
	Genre       string    `json:"genre" example:"Science Fiction"`
	SwapiID     *string   `json:"swapi_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
