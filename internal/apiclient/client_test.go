package apiclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"backend-trailhub/internal/catalog"
	"backend-trailhub/internal/config"
	"backend-trailhub/internal/pin"
	"backend-trailhub/internal/rating"
	"backend-trailhub/internal/server"
	"backend-trailhub/internal/store"
	"backend-trailhub/internal/upload"
	"backend-trailhub/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startAPI serves a seeded in-memory API on a real listener.
func startAPI(t *testing.T) string {
	t.Helper()
	st := store.NewMemory()
	_, err := catalog.Seed(context.Background(), st.Pins, nil)
	require.NoError(t, err)

	srv := server.NewServer(config.Config{
		JWTSecret:     "secret",
		UploadBaseURL: "https://storage.test/uploads/",
	}, st, nil, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.App.Listener(ln) }()
	t.Cleanup(func() { _ = srv.App.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestClientAgainstServer(t *testing.T) {
	c := New(startAPI(t), WithTimeout(2*time.Second))
	ctx := context.Background()

	pins, err := c.ListPins(ctx, "")
	require.NoError(t, err)
	assert.Len(t, pins, len(catalog.Pins()))

	trails, err := c.ListPins(ctx, store.CategoryTrail)
	require.NoError(t, err)
	assert.Len(t, trails, catalog.TrailCount())

	u, err := c.UpsertUser(ctx, user.UpsertRequest{UID: "visitor-1", Username: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	up, err := c.ReserveUpload(ctx, upload.Request{UserID: u.ID, FileName: "selfie.jpg", PinID: "p1"})
	require.NoError(t, err)
	assert.Contains(t, up.URL, "selfie.jpg")

	res, err := c.CheckIn(ctx, "p1", pin.CheckInRequest{UserID: u.ID, PhotoURL: up.URL})
	require.NoError(t, err)
	assert.True(t, res.Pin.Completed)
	assert.Equal(t, []string{"p1"}, res.User.CompletedPins)

	_, err = c.CheckIn(ctx, "p1", pin.CheckInRequest{UserID: u.ID, PhotoURL: up.URL})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))

	completed, err := c.CompletedPins(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "p1", completed[0].ID)

	r, err := c.CreateRating(ctx, rating.CreateRequest{UserID: u.ID, PinID: "p3", Rating: 5, Review: "Great"})
	require.NoError(t, err)
	ratings, err := c.PinRatings(ctx, "p3")
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, r.ID, ratings[0].ID)

	require.NoError(t, c.Track(ctx, "pin_click", map[string]any{"pinId": "p2"}))
}

func TestClientValidationError(t *testing.T) {
	c := New(startAPI(t))

	_, err := c.CreateRating(context.Background(), rating.CreateRequest{UserID: "u1", PinID: "p3", Rating: 9})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, apiErr.Temporary())
	require.NotEmpty(t, apiErr.Details)
	assert.Equal(t, "rating", apiErr.Details[0].Field)
}

func TestClientNotFound(t *testing.T) {
	c := New(startAPI(t))
	_, err := c.GetPin(context.Background(), "missing")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	for i := 0; i < 5; i++ {
		_, err := c.ListPins(context.Background(), "")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.True(t, apiErr.Temporary())
	}

	_, err := c.ListPins(context.Background(), "")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.True(t, apiErr.Temporary())
	assert.Equal(t, int32(5), hits.Load())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Pin not found"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	for i := 0; i < 8; i++ {
		_, err := c.GetPin(context.Background(), "x")
		assert.True(t, IsStatus(err, http.StatusNotFound))
	}
	assert.Equal(t, int32(8), hits.Load())
}

func TestErrorWithoutBody(t *testing.T) {
	e := decodeError(http.StatusBadGateway, []byte("<html>"))
	assert.Equal(t, "Bad Gateway", e.Message)
	assert.True(t, e.Temporary())
}

func TestBearerTokenSent(t *testing.T) {
	var got atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"pins":[]}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, WithBearerToken("id-token")).ListPins(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer id-token", got.Load())

	_, err = New(ts.URL).ListPins(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())
}
