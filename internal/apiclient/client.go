// Package apiclient is the HTTP client for the student directory API. The
// session is an HttpOnly cookie, so the client carries a cookie jar and a
// successful Login authenticates every later call on the same client.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"student-directory/internal/student"
)

// Identity is the authenticated credential behind the session.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// APIError carries the server's error payload and status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL string, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
		logger:  logger,
	}, nil
}

// ListStudents fetches the full directory.
func (c *Client) ListStudents(ctx context.Context) ([]student.Student, error) {
	var resp struct {
		Success  bool              `json:"success"`
		Count    int               `json:"count"`
		Students []student.Student `json:"students"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/student-info", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Students, nil
}

// CreateStudent persists a new record and returns its generated id.
func (c *Client) CreateStudent(ctx context.Context, req student.CreateStudentRequest) (int64, error) {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/student-info", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// DeleteStudent removes the record matching the natural key.
func (c *Client) DeleteStudent(ctx context.Context, rollNo int, class string) error {
	req := student.DeleteStudentRequest{RollNo: &rollNo, Class: class}
	return c.do(ctx, http.MethodDelete, "/api/student-info", req, nil)
}

// Login exchanges credentials for a session cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var identity Identity
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout clears the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Session resolves the current session to an identity.
func (c *Client) Session(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth-session", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
			payload.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
