package movie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapiClient_ListFilms(t *testing.T) {
	t.Run("decodes the film listing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/films", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"result":[{"uid":"1"},{"uid":"2"},{"uid":"3"}]}`))
		}))
		defer srv.Close()

		client := NewSwapiClient(srv.URL, time.Second)
		refs, err := client.ListFilms(context.Background())
		require.NoError(t, err)
		require.Len(t, refs, 3)
		assert.Equal(t, "1", refs[0].UID)
	})

	t.Run("fails on a non-200 response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewSwapiClient(srv.URL, time.Second)
		_, err := client.ListFilms(context.Background())
		assert.Error(t, err)
	})
}

func TestSwapiClient_GetFilm(t *testing.T) {
	t.Run("decodes the film detail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/films/4", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"result": {
					"uid": "4",
					"description": "A Star Wars Film",
					"properties": {
						"title": "A New Hope",
						"director": "George Lucas",
						"release_date": "1977-05-25"
					}
				}
			}`))
		}))
		defer srv.Close()

		client := NewSwapiClient(srv.URL, time.Second)
		film, err := client.GetFilm(context.Background(), "4")
		require.NoError(t, err)
		assert.Equal(t, "4", film.UID)
		assert.Equal(t, "A New Hope", film.Title)
		assert.Equal(t, "A Star Wars Film", film.Description)
		assert.Equal(t, "George Lucas", film.Director)
		assert.Equal(t, 1977, film.Year)
	})

	t.Run("keeps the requested uid when the payload omits it", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"properties":{"title":"Unknown"}}}`))
		}))
		defer srv.Close()

		client := NewSwapiClient(srv.URL, time.Second)
		film, err := client.GetFilm(context.Background(), "9")
		require.NoError(t, err)
		assert.Equal(t, "9", film.UID)
		assert.Zero(t, film.Year)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := NewSwapiClient(srv.URL, time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := client.GetFilm(ctx, "1")
		assert.Error(t, err)
	})
}
