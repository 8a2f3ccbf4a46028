package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JoaquinArno/api-star-wars/config"
	"github.com/JoaquinArno/api-star-wars/internal/api/auth"
	"github.com/JoaquinArno/api-star-wars/internal/api/movie"
	"github.com/JoaquinArno/api-star-wars/internal/types"
)

func benchCodec() *auth.TokenCodec {
	return auth.NewTokenCodec(config.JWTConfig{
		SecretKey: "bench-secret",
		TokenTTL:  time.Hour,
		Issuer:    "api-star-wars-bench",
	})
}

func BenchmarkHashPassword(b *testing.B) {
	salt := auth.NewSalt()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		auth.HashPassword("password123", salt)
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	digest := auth.HashPassword("password123", auth.NewSalt())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		auth.VerifyPassword(digest, "password123")
	}
}

func BenchmarkTokenIssue(b *testing.B) {
	codec := benchCodec()
	userID := uuid.NewString()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Issue(userID, types.RoleUser); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenDecode(b *testing.B) {
	codec := benchCodec()
	token, err := codec.Issue(uuid.NewString(), types.RoleUser)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Decode(token); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSigninEndpoint(b *testing.B) {
	store := newMemStore()
	server := newTestServer(store, "http://invalid.invalid")
	defer server.Close()

	client := &http.Client{Timeout: 10 * time.Second}

	signup, _ := json.Marshal(map[string]string{
		"email":    "bench@example.com",
		"password": "password123",
	})
	resp, err := client.Post(server.URL+"/auth/signup", "application/json", bytes.NewReader(signup))
	if err != nil {
		b.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b.Fatalf("signup returned %d", resp.StatusCode)
	}

	signin, _ := json.Marshal(map[string]string{
		"email":    "bench@example.com",
		"password": "password123",
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := client.Post(server.URL+"/auth/signin", "application/json", bytes.NewReader(signin))
		if err != nil {
			b.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("signin returned %d", resp.StatusCode)
		}
	}
}

func BenchmarkPublicMovieListing(b *testing.B) {
	store := newMemStore()
	for i := 0; i < 50; i++ {
		store.CreateMovie(context.Background(), movie.CreateMovieRequest{
			Title:       fmt.Sprintf("Film %d", i),
			Description: "A film.",
			Director:    "George Lucas",
			Year:        1977,
			Genre:       "Science Fiction",
		})
	}
	server := newTestServer(store, "http://invalid.invalid")
	defer server.Close()

	client := &http.Client{Timeout: 10 * time.Second}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := client.Get(server.URL + "/movies")
		if err != nil {
			b.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("listing returned %d", resp.StatusCode)
		}
	}
}
