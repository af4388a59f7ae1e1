package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

// User mirrors the user payload returned by the API.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      auth.Role `json:"role"`
	Active    bool      `json:"active"`
}

// Patient mirrors the patient payload returned by the API.
type Patient struct {
	ID           uuid.UUID `json:"id"`
	FolderNumber string    `json:"folder_number"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Gender       string    `json:"gender"`
	BirthDate    time.Time `json:"birth_date"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
}

// Invoice mirrors the invoice payload returned by the API. Amounts are in
// francs.
type Invoice struct {
	ID        uuid.UUID  `json:"id"`
	Number    string     `json:"number"`
	PatientID uuid.UUID  `json:"patient_id"`
	Status    string     `json:"status"`
	Total     int64      `json:"total"`
	PaidBy    *uuid.UUID `json:"paid_by,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// Page is the list envelope the API wraps collections in.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is a typed HTTP client for the hospital API. It attaches the
// stored bearer token to every request through Transport.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, store TokenStore) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &Transport{Store: store},
			Timeout:   30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
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
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := ""
		if data, err := io.ReadAll(resp.Body); err == nil {
			if json.Unmarshal(data, &payload) == nil {
				msg = payload.Error
				if msg == "" {
					msg = payload.Message
				}
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login exchanges credentials for a token. Most callers go through
// Session.Login, which also persists the token and maps errors to
// user-facing messages.
func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	var resp struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User, nil
}

// Verify validates the stored token and returns the current user.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) ListPatients(ctx context.Context, q string, limit, offset int) (*Page[*Patient], error) {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	v.Set("limit", fmt.Sprint(limit))
	v.Set("offset", fmt.Sprint(offset))

	var page Page[*Patient]
	if err := c.do(ctx, http.MethodGet, "/api/patients?"+v.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetPatient(ctx context.Context, idOrFolder string) (*Patient, error) {
	var p Patient
	if err := c.do(ctx, http.MethodGet, "/api/patients/"+url.PathEscape(idOrFolder), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	var created Patient
	if err := c.do(ctx, http.MethodPost, "/api/patients", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListInvoices(ctx context.Context, status string, limit, offset int) (*Page[*Invoice], error) {
	v := url.Values{}
	if status != "" {
		v.Set("status", status)
	}
	v.Set("limit", fmt.Sprint(limit))
	v.Set("offset", fmt.Sprint(offset))

	var page Page[*Invoice]
	if err := c.do(ctx, http.MethodGet, "/api/invoices?"+v.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) PayInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	var inv Invoice
	if err := c.do(ctx, http.MethodPost, "/api/invoices/"+id.String()+"/pay", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
