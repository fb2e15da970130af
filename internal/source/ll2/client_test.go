package ll2

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launch_notifier/internal/domain"
)

const validBody = `{
  "count": 1,
  "next": null,
  "previous": null,
  "results": [
    {
      "id": "67c0e594-72df-4cb4-8db3-3f94e96a7ecc",
      "name": "Firefly Alpha | FLTA005 (Noise of Summer)",
      "status": {"id": 1, "name": "Go for Launch", "abbrev": "Go"},
      "net": "2024-07-02T04:03:00Z",
      "window_start": "2024-07-02T04:03:00Z",
      "window_end": "2024-07-02T04:33:00Z",
      "infoURLs": [{"url": "https://fireflyspace.com/missions/noise-of-summer/"}],
      "vidURLs": [],
      "hashtag": null
    }
  ]
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, detailed bool) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Config{BaseURL: server.URL + "/2.2.0/", Timeout: 2 * time.Second, Detailed: detailed}, testLogger())
	require.NoError(t, err)
	return c
}

func TestDeadline(t *testing.T) {
	now := time.Date(2023, 11, 19, 6, 55, 0, 0, time.UTC)

	got, err := Deadline(now, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 11, 19, 7, 55, 0, 0, time.UTC), got)

	got, err = Deadline(now, 24)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 11, 20, 6, 55, 0, 0, time.UTC), got)
}

func TestDeadline_RejectsNonPositiveWindow(t *testing.T) {
	now := time.Date(2023, 11, 19, 6, 55, 0, 0, time.UTC)

	for _, hours := range []int{0, -1} {
		_, err := Deadline(now, hours)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "window_hours must be a positive int")
	}
}

func TestDeadline_ConvertsToUTC(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	now := time.Date(2023, 11, 19, 0, 55, 0, 0, chicago)

	got, err := Deadline(now, 1)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, "2023-11-19T07:55:00Z", got.Format(domain.WireTimeFormat))
}

func TestEnvironment_BaseURL(t *testing.T) {
	got, err := EnvProd.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, ProdBaseURL, got)

	got, err = EnvDev.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, DevBaseURL, got)

	_, err = Environment("staging").BaseURL()
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestFetchUpcoming_EncodesQuery(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	var gotAccept string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, validBody)
	}, true)

	deadline := time.Date(2023, 11, 19, 7, 55, 0, 0, time.UTC)
	launches, err := c.FetchUpcoming(context.Background(), deadline)
	require.NoError(t, err)

	assert.Equal(t, "/2.2.0/launch/upcoming/", gotPath)
	assert.Equal(t, "2023-11-19T07:55:00Z", gotQuery.Get("window_start__lt"))
	assert.Equal(t, "true", gotQuery.Get("hide_recent_previous"))
	assert.Equal(t, "detailed", gotQuery.Get("mode"))
	assert.Equal(t, "application/json", gotAccept)

	require.Equal(t, 1, launches.Count)
	require.Len(t, launches.Results, 1)
	assert.Equal(t, "67c0e594-72df-4cb4-8db3-3f94e96a7ecc", launches.Results[0].ID)
	require.NotNil(t, launches.Results[0].StatusName())
	assert.Equal(t, "Go for Launch", *launches.Results[0].StatusName())
}

func TestFetchUpcoming_OmitsModeByDefault(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, validBody)
	}, false)

	_, err := c.FetchUpcoming(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, gotQuery.Has("mode"))
}

func TestFetchUpcoming_FailuresAreFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`},
		{name: "not found", status: http.StatusNotFound, body: ``},
		{name: "not json", status: http.StatusOK, body: `<html>nope</html>`},
		{name: "null", status: http.StatusOK, body: `null`},
		{name: "array", status: http.StatusOK, body: `[1, 2, 3]`},
		{name: "scalar", status: http.StatusOK, body: `42`},
		{name: "missing count", status: http.StatusOK, body: `{"results": []}`},
		{name: "missing results", status: http.StatusOK, body: `{"count": 0}`},
		{name: "wrong typed results", status: http.StatusOK, body: `{"count": 1, "results": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, false)

			launches, err := c.FetchUpcoming(context.Background(), time.Now().Add(time.Hour))
			require.Error(t, err)
			assert.Nil(t, launches)
			assert.ErrorIs(t, err, domain.ErrFetch)

			var fetchErr *domain.FetchError
			assert.True(t, errors.As(err, &fetchErr))
		})
	}
}

func TestFetchUpcoming_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL + "/"
	server.Close()

	c, err := New(Config{BaseURL: baseURL, Timeout: time.Second}, testLogger())
	require.NoError(t, err)

	_, err = c.FetchUpcoming(context.Background(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "execute request")
}
