package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// SwapiClient fetches film records from the public Star Wars API.
type SwapiClient interface {
	ListFilms(ctx context.Context) ([]SwapiFilmRef, error)
	GetFilm(ctx context.Context, uid string) (*SwapiFilm, error)
}

// SwapiFilmRef is a film entry from the listing endpoint.
type SwapiFilmRef struct {
	UID string `json:"uid"`
}

// SwapiFilm is the detail payload for a single film.
type SwapiFilm struct {
	UID         string
	Title       string
	Description string
	Director    string
	Year        int
}

var _ SwapiClient = (*SwapiClientImpl)(nil)

type SwapiClientImpl struct {
	baseURL string
	client  *http.Client
}

func NewSwapiClient(baseURL string, timeout time.Duration) *SwapiClientImpl {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SwapiClientImpl{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type swapiListResponse struct {
	Result []SwapiFilmRef `json:"result"`
}

type swapiDetailResponse struct {
	Result struct {
		UID         string `json:"uid"`
		Description string `json:"description"`
		Properties  struct {
			Title       string `json:"title"`
			Director    string `json:"director"`
			ReleaseDate string `json:"release_date"`
		} `json:"properties"`
	} `json:"result"`
}

func (c *SwapiClientImpl) ListFilms(ctx context.Context) ([]SwapiFilmRef, error) {
	var payload swapiListResponse
	if err := c.getJSON(ctx, c.baseURL+"/films", &payload); err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	return payload.Result, nil
}

func (c *SwapiClientImpl) GetFilm(ctx context.Context, uid string) (*SwapiFilm, error) {
	var payload swapiDetailResponse
	if err := c.getJSON(ctx, c.baseURL+"/films/"+uid, &payload); err != nil {
		return nil, fmt.Errorf("get film %s: %w", uid, err)
	}

	film := &SwapiFilm{
		UID:         payload.Result.UID,
		Title:       payload.Result.Properties.Title,
		Description: payload.Result.Description,
		Director:    payload.Result.Properties.Director,
	}
	if film.UID == "" {
		film.UID = uid
	}
	// release_date is YYYY-MM-DD
	if date := payload.Result.Properties.ReleaseDate; len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			film.Year = year
		}
	}
	return film, nil
}

func (c *SwapiClientImpl) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
