package movie

import (
	"fmt"
	"time"
)

// earliest year a motion picture could plausibly carry
const minMovieYear = 1888

type CreateMovieRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Year        int    `json:"year"`
	Genre       string `json:"genre"`
}

type UpdateMovieRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Director    *string `json:"director,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Genre       *string `json:"genre,omitempty"`
}

// UpdateMovieParams carries the optional fields for a partial update.
type UpdateMovieParams struct {
	Title       *string
	Description *string
	Director    *string
	Year        *int
	Genre       *string
}

type SyncResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

func validYear(year int) error {
	if year < minMovieYear || year > time.Now().Year()+1 {
		return fmt.Errorf("year must be between %d and %d", minMovieYear, time.Now().Year()+1)
	}
	return nil
}

func (r CreateMovieRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if r.Director == "" {
		return fmt.Errorf("director is required")
	}
	if r.Genre == "" {
		return fmt.Errorf("genre is required")
	}
	return validYear(r.Year)
}

func (r UpdateMovieRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if r.Description != nil && *r.Description == "" {
		return fmt.Errorf("description must not be empty")
	}
	if r.Director != nil && *r.Director == "" {
		return fmt.Errorf("director must not be empty")
	}
	if r.Genre != nil && *r.Genre == "" {
		return fmt.Errorf("genre must not be empty")
	}
	if r.Year != nil {
		return validYear(*r.Year)
	}
	return nil
}
