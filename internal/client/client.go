// Package client is the typed API client for the catalog service. Every
// request carries the stored bearer token; a 401 on any authenticated
// call clears the durable session and surfaces ErrSessionExpired so the
// caller can send the user back to login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// ErrSessionExpired reports that the server rejected the stored token.
// The session file has already been cleared when this is returned.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-2xx response decoded into the API's error shape.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	var details []string
	for field, messages := range e.Errors {
		details = append(details, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.Status, strings.Join(details, ", "))
}

// Client talks to the catalog API.
type Client struct {
	baseURL string
	http    *http.Client
	store   *SessionStore
	session *Session
}

// New creates a client and populates its session from durable storage.
func New(baseURL string, store *SessionStore) (*Client, error) {
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		session: session,
	}, nil
}

// Session returns the current session, or nil when logged out.
func (c *Client) Session() *Session {
	return c.session
}

type authResponse struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}

// Register creates an account and stores the issued session.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) (*entities.User, error) {
	payload := validation.RegisterInput{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	}
	var resp authResponse
	if err := c.doPublic(ctx, http.MethodPost, "/register", payload, &resp); err != nil {
		return nil, err
	}
	return resp.User, c.adoptSession(resp)
}

// Login authenticates and stores the issued session.
func (c *Client) Login(ctx context.Context, email, password string) (*entities.User, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doPublic(ctx, http.MethodPost, "/login", payload, &resp); err != nil {
		return nil, err
	}
	return resp.User, c.adoptSession(resp)
}

// Logout revokes the server-side token and clears the local session. The
// local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	var callErr error
	if c.session != nil {
		callErr = c.do(ctx, http.MethodPost, "/logout", nil, nil)
		if errors.Is(callErr, ErrSessionExpired) {
			callErr = nil
		}
	}
	c.session = nil
	if err := c.store.Clear(); err != nil {
		return err
	}
	return callErr
}

// CurrentUser fetches the user the stored token resolves to.
func (c *Client) CurrentUser(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) adoptSession(resp authResponse) error {
	if resp.Token == "" {
		return fmt.Errorf("auth response does not contain a token")
	}
	c.session = &Session{Token: resp.Token, User: resp.User}
	return c.store.Save(c.session)
}

// Authors returns the author resource accessor.
func (c *Client) Authors() *AuthorsAPI { return &AuthorsAPI{client: c} }

// Categories returns the category resource accessor.
func (c *Client) Categories() *CategoriesAPI { return &CategoriesAPI{client: c} }

// Books returns the book resource accessor.
func (c *Client) Books() *BooksAPI { return &BooksAPI{client: c} }

type AuthorsAPI struct {
	client *Client
}

func (a *AuthorsAPI) List(ctx context.Context) ([]entities.Author, error) {
	var out []entities.Author
	err := a.client.do(ctx, http.MethodGet, "/authors", nil, &out)
	return out, err
}

func (a *AuthorsAPI) Get(ctx context.Context, id uint) (*entities.Author, error) {
	var out entities.Author
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/authors/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthorsAPI) Create(ctx context.Context, in validation.AuthorInput) (*entities.Author, error) {
	var out entities.Author
	if err := a.client.do(ctx, http.MethodPost, "/authors", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthorsAPI) Update(ctx context.Context, id uint, in validation.AuthorInput) (*entities.Author, error) {
	var out entities.Author
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/authors/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthorsAPI) Delete(ctx context.Context, id uint) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/authors/%d", id), nil, nil)
}

type CategoriesAPI struct {
	client *Client
}

func (a *CategoriesAPI) List(ctx context.Context) ([]entities.Category, error) {
	var out []entities.Category
	err := a.client.do(ctx, http.MethodGet, "/categories", nil, &out)
	return out, err
}

func (a *CategoriesAPI) Get(ctx context.Context, id uint) (*entities.Category, error) {
	var out entities.Category
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CategoriesAPI) Create(ctx context.Context, in validation.CategoryInput) (*entities.Category, error) {
	var out entities.Category
	if err := a.client.do(ctx, http.MethodPost, "/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CategoriesAPI) Update(ctx context.Context, id uint, in validation.CategoryInput) (*entities.Category, error) {
	var out entities.Category
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CategoriesAPI) Delete(ctx context.Context, id uint) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}

type BooksAPI struct {
	client *Client
}

func (a *BooksAPI) List(ctx context.Context) ([]entities.Book, error) {
	var out []entities.Book
	err := a.client.do(ctx, http.MethodGet, "/books", nil, &out)
	return out, err
}

func (a *BooksAPI) Get(ctx context.Context, id uint) (*entities.Book, error) {
	var out entities.Book
	if err := a.client.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BooksAPI) Create(ctx context.Context, in validation.BookInput) (*entities.Book, error) {
	var out entities.Book
	if err := a.client.do(ctx, http.MethodPost, "/books", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BooksAPI) Update(ctx context.Context, id uint, in validation.BookInput) (*entities.Book, error) {
	var out entities.Book
	if err := a.client.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BooksAPI) Delete(ctx context.Context, id uint) error {
	return a.client.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}

// do performs an authenticated request. A 401 clears the stored session
// and comes back as ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	status, err := c.roundTrip(ctx, method, path, body, out)
	if err != nil {
		if status == http.StatusUnauthorized {
			c.session = nil
			_ = c.store.Clear()
			return ErrSessionExpired
		}
		return err
	}
	return nil
}

// doPublic performs a request that does not represent an established
// session; a 401 here (wrong password) is an APIError, not expiry.
func (c *Client) doPublic(ctx context.Context, method, path string, body any, out any) error {
	_, err := c.roundTrip(ctx, method, path, body, out)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil && c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		var payload struct {
			Message string              `json:"message"`
			Errors  map[string][]string `json:"errors"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Message != "" {
			apiErr.Message = payload.Message
			apiErr.Errors = payload.Errors
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
