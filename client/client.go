// Package client is a typed HTTP client for the blog API, covering the same
// endpoints the browser client calls. Authenticated calls attach the bearer
// token set with SetToken.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const defaultBaseURL = "http://localhost:5000/api"

// Client talks to a blog API server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL. An empty baseURL falls back
// to the API_URL environment variable, then to http://localhost:5000/api.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("API_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken stores the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account and returns the session token and user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &res, false); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login authenticates and returns the session token and user.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &res, false); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListPosts fetches a page of posts, optionally filtered by search.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (*PostList, error) {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var res PostList
	if err := c.do(ctx, http.MethodGet, "/posts", query, nil, &res, false); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id uint) (*Post, error) {
	var res Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, nil, &res, false); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreatePost creates a post as the authenticated user.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (*PostResponse, error) {
	var res PostResponse
	if err := c.do(ctx, http.MethodPost, "/posts", nil, req, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdatePost replaces a post's fields; the caller must own the post.
func (c *Client) UpdatePost(ctx context.Context, id uint, req PostRequest) (*PostResponse, error) {
	var res PostResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), nil, req, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeletePost removes a post; the caller must own the post.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil, nil, true)
}

// ListUserPosts fetches a page of one user's posts.
func (c *Client) ListUserPosts(ctx context.Context, userID string, page, limit int) (*PostList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var res PostList
	if err := c.do(ctx, http.MethodGet, "/posts/user/"+url.PathEscape(userID), query, nil, &res, false); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
	}
	return apiErr
}
