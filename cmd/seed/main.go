package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"blogapi/client"
)

// demo content inserted through the public API so the seed exercises the
// same validation and auth paths as a real client
type seedUser struct {
	username string
	email    string
	password string
	posts    []client.PostRequest
}

var seedUsers = []seedUser{
	{
		username: "alice",
		email:    "alice@example.com",
		password: "secret1",
		posts: []client.PostRequest{
			{
				Title:   "Getting Started With This Blog",
				Content: "Welcome to the demo blog. This first post exists so the listing page has something to show, and its content comfortably clears the fifty character minimum.",
			},
			{
				Title:    "A Post With a Cover Image",
				Content:  "Posts can carry an optional image URL, which must be an http or https link. This one demonstrates the field end to end through the API client.",
				ImageURL: "https://picsum.photos/seed/blog/800/400",
			},
		},
	},
	{
		username: "bob",
		email:    "bob@example.com",
		password: "secret2",
		posts: []client.PostRequest{
			{
				Title:   "Second Author Checking In",
				Content: "Having posts from more than one author makes the ownership rules visible: bob cannot edit alice's posts and the other way around, by design of the API.",
			},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	api := client.New(os.Getenv("API_URL"))
	ctx := context.Background()

	created := 0
	for _, u := range seedUsers {
		token, err := signIn(ctx, api, u)
		if err != nil {
			log.Fatalf("Failed to sign in %s: %v", u.username, err)
		}
		api.SetToken(token)

		for _, p := range u.posts {
			res, err := api.CreatePost(ctx, p)
			if err != nil {
				log.Fatalf("Failed to create post %q: %v", p.Title, err)
			}
			log.Printf("  - created post %d %q as %s", res.Post.ID, res.Post.Title, u.username)
			created++
		}
	}

	log.Printf("Seed completed successfully! %d posts created.", created)
}

// signIn registers the user, falling back to login when the account already
// exists from a previous run.
func signIn(ctx context.Context, api *client.Client, u seedUser) (string, error) {
	res, err := api.Register(ctx, client.RegisterRequest{
		Username: u.username,
		Email:    u.email,
		Password: u.password,
	})
	if err == nil {
		log.Printf("Registered %s (%s)", u.username, res.User.ID)
		return res.Token, nil
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		return "", err
	}

	login, err := api.Login(ctx, client.LoginRequest{Email: u.email, Password: u.password})
	if err != nil {
		return "", fmt.Errorf("register then login both failed: %w", err)
	}
	log.Printf("Logged in existing user %s (%s)", u.username, login.User.ID)
	return login.Token, nil
}
