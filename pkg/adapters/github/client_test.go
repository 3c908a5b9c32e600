package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{
		BaseURL:   srv.URL,
		UserAgent: "gistproxy-test",
		Timeout:   time.Second,
		Logger:    zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return c
}

func TestListGists(t *testing.T) {
	t.Run("returns records in upstream order", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/users/octocat/gists", r.URL.Path)
			assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
			assert.Equal(t, "gistproxy-test", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id": "1", "html_url": "https://gist.github.com/octocat/1", "public": true},
				{"id": "2", "html_url": "https://gist.github.com/octocat/2"}
			]`))
		})

		gists, err := c.ListGists(context.Background(), "octocat")
		require.NoError(t, err)
		require.Len(t, gists, 2)
		assert.Equal(t, "https://gist.github.com/octocat/1", gists[0].HTMLURL)
		assert.Equal(t, "https://gist.github.com/octocat/2", gists[1].HTMLURL)
	})

	t.Run("empty list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		gists, err := c.ListGists(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Empty(t, gists)
	})

	t.Run("non-200 yields StatusError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		})

		_, err := c.ListGists(context.Background(), "ghost")
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Contains(t, statusErr.URL, "/users/ghost/gists")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		})

		_, err := c.ListGists(context.Background(), "octocat")
		assert.ErrorContains(t, err, "failed to decode gists")
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("username is path escaped", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/a%2Fb/gists", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`[]`))
		})

		_, err := c.ListGists(context.Background(), "a/b")
		require.NoError(t, err)
	})
}

func TestListGistsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(&Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.ListGists(context.Background(), "octocat")
	assert.ErrorContains(t, err, "failed to call GitHub")

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestGistsURL(t *testing.T) {
	c, err := NewClient(&Config{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/users/octocat/gists", c.GistsURL("octocat"))

	c, err = NewClient(&Config{BaseURL: "http://localhost:9000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/users/octocat/gists", c.GistsURL("octocat"))
}
