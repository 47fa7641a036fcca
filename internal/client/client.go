// Package client talks to a GenFolio server over its JSON API. The CLI uses
// it; so can anything else that wants profiles without a browser.
//
// Failures come in two kinds. A missing profile is final and reported as
// apperror.ErrNotFound. Everything else (network errors, 5xx, bodies that do
// not decode) is a *TransientError wrapping apperror.ErrUnavailable: the
// caller may retry, but the client never does so on its own.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
)

const DefaultTimeout = 10 * time.Second

// TransientError is a failure that may go away on a manual retry.
type TransientError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("client: %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
}

// Unwrap exposes both apperror.ErrUnavailable and the cause to errors.Is.
func (e *TransientError) Unwrap() []error {
	return []error{apperror.ErrUnavailable, e.Err}
}

// Client is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// New returns a client for the server at baseURL. A zero timeout means
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return &Client{http: rc}
}

// FetchProfile loads a submitted profile by id.
func (c *Client) FetchProfile(ctx context.Context, id string) (*model.ProfileRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "profile ID is required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/users/" + url.PathEscape(id))
	if err != nil {
		return nil, &TransientError{Op: "fetch profile", Err: err}
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, apperror.NotFound("profile", id)
	case resp.StatusCode() != http.StatusOK:
		return nil, &TransientError{Op: "fetch profile", StatusCode: resp.StatusCode(), Err: errors.New(serverMessage(resp))}
	}

	var p model.ProfileRecord
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, &TransientError{Op: "fetch profile", StatusCode: resp.StatusCode(), Err: fmt.Errorf("decoding body: %w", err)}
	}
	return &p, nil
}

// CreateProfile submits p and returns the id the server assigned.
// Validation failures come back as *apperror.AppError naming the field.
func (c *Client) CreateProfile(ctx context.Context, p *model.ProfileRecord) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(p).
		Post("/api/users")
	if err != nil {
		return "", &TransientError{Op: "create profile", Err: err}
	}

	body := resp.String()
	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusOK:
	case http.StatusBadRequest:
		return "", apperror.ValidationFailed(gjson.Get(body, "field").String(), serverMessage(resp))
	case http.StatusConflict:
		return "", &apperror.AppError{Err: apperror.ErrConflict, Message: serverMessage(resp)}
	default:
		return "", &TransientError{Op: "create profile", StatusCode: resp.StatusCode(), Err: errors.New(serverMessage(resp))}
	}

	id := gjson.Get(body, "id").String()
	if id == "" {
		return "", &TransientError{Op: "create profile", StatusCode: resp.StatusCode(), Err: errors.New("response has no id")}
	}
	return id, nil
}

// serverMessage picks the message out of an API error body, falling back
// to the status text.
func serverMessage(resp *resty.Response) string {
	if msg := gjson.Get(resp.String(), "message").String(); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode())
}
