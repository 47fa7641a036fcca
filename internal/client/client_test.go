package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second)
}

// =========================================================================
// FETCH
// =========================================================================

func TestFetchProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"abc","name":"Jane","freelanceAvailable":true,
			"technicalSkills":[{"name":"Go","level":"80"}]}`)
	})

	p, err := c.FetchProfile(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Jane", p.Name)
	assert.True(t, p.FreelanceAvailable.True())
	assert.Equal(t, "80%", p.TechnicalSkills[0].Level.Percent())
}

func TestFetchProfile_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantNotFound  bool
		wantTransient bool
	}{
		{"not found", http.StatusNotFound, `{"error":"not_found"}`, true, false},
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, false, true},
		{"unavailable", http.StatusServiceUnavailable, ``, false, true},
		{"garbage body", http.StatusOK, `<html>`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.FetchProfile(context.Background(), "abc")
			require.Error(t, err)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, apperror.ErrNotFound))
			assert.Equal(t, tt.wantTransient, errors.Is(err, apperror.ErrUnavailable))

			var te *TransientError
			assert.Equal(t, tt.wantTransient, errors.As(err, &te))
		})
	}
}

func TestFetchProfile_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).FetchProfile(context.Background(), "abc")
	var te *TransientError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
	assert.True(t, errors.Is(err, apperror.ErrUnavailable))
}

func TestFetchProfile_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchProfile(ctx, "abc")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetchProfile_EmptyID(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.FetchProfile(context.Background(), " ")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

// =========================================================================
// CREATE
// =========================================================================

func TestCreateProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var p model.ProfileRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "Jane", p.Name)

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"cv37rs3pp9olc6atsptg"}`)
	})

	id, err := c.CreateProfile(context.Background(), &model.ProfileRecord{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "cv37rs3pp9olc6atsptg", id)
}

func TestCreateProfile_Validation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"validation_error","message":"email is required","field":"email","section":"personal"}`)
	})

	_, err := c.CreateProfile(context.Background(), &model.ProfileRecord{})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, "email is required", appErr.Message)
}

func TestCreateProfile_MissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{}`)
	})

	_, err := c.CreateProfile(context.Background(), &model.ProfileRecord{})
	assert.True(t, errors.Is(err, apperror.ErrUnavailable))
}
