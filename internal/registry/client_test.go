package registry_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	method string
	path   string
	body   map[string]any
}

func newServer(t *testing.T, status int, response string, got *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.method = r.Method
			got.path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &got.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClassify(t *testing.T) {
	assert.Equal(t, registry.OutcomeSuccess, registry.Classify(http.StatusOK))
	assert.Equal(t, registry.OutcomeNotFound, registry.Classify(http.StatusNotFound))
	assert.Equal(t, registry.OutcomeForbidden, registry.Classify(http.StatusForbidden))
	assert.Equal(t, registry.OutcomeFailure, registry.Classify(http.StatusInternalServerError))
	assert.Equal(t, registry.OutcomeFailure, registry.Classify(http.StatusCreated))
}

func TestArriveMeeting_CamelShape(t *testing.T) {
	var got capture
	srv := newServer(t, http.StatusOK, `{"message":"ok"}`, &got)
	c := registry.NewClient(srv.URL+"/", config.ShapeCamel, time.Second)

	raw, err := c.ArriveMeeting(context.Background(), "John", "Mark", "1234")
	require.NoError(t, err)

	assert.JSONEq(t, `{"message":"ok"}`, string(raw))
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/visitors/arrive-meeting", got.path)
	assert.Equal(t, map[string]any{"visitorName": "John", "meetingWith": "Mark"}, got.body)
}

func TestArriveMeeting_PascalShape(t *testing.T) {
	var got capture
	srv := newServer(t, http.StatusOK, `{}`, &got)
	c := registry.NewClient(srv.URL, config.ShapePascal, time.Second)

	_, err := c.ArriveMeeting(context.Background(), "John", "Mark", "1234")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"VisitorName": "John", "MeetingWith": "Mark", "PIN": "1234"}, got.body)
}

func TestArriveMeeting_NotFound(t *testing.T) {
	srv := newServer(t, http.StatusNotFound, `employee not found`, nil)
	c := registry.NewClient(srv.URL, config.ShapeCamel, time.Second)

	_, err := c.ArriveMeeting(context.Background(), "John", "Nobody", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, registry.StatusCode(err))
}

func TestBodies(t *testing.T) {
	tests := []struct {
		name string
		call func(c *registry.Client) error
		path string
		body map[string]any
	}{
		{
			name: "courier",
			call: func(c *registry.Client) error {
				_, err := c.ArriveCourier(context.Background(), "DHL Dave")
				return err
			},
			path: "/visitors/arrive-courier",
			body: map[string]any{"CourierName": "DHL Dave"},
		},
		{
			name: "contractor",
			call: func(c *registry.Client) error {
				_, err := c.ArriveContractor(context.Background(), "Bob", "Acme")
				return err
			},
			path: "/visitors/arrive-contractor",
			body: map[string]any{"VisitorName": "Bob", "Company": "Acme"},
		},
		{
			name: "sign out",
			call: func(c *registry.Client) error {
				_, err := c.SignOut(context.Background(), 42)
				return err
			},
			path: "/visitors/sign-out",
			body: map[string]any{"VisitorId": float64(42)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got capture
			srv := newServer(t, http.StatusOK, `{}`, &got)
			require.NoError(t, tt.call(registry.NewClient(srv.URL, config.ShapeCamel, time.Second)))
			assert.Equal(t, tt.path, got.path)
			assert.Equal(t, tt.body, got.body)
		})
	}
}

func TestPost_PlainTextBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, "Signed out", nil)
	c := registry.NewClient(srv.URL, config.ShapeCamel, time.Second)

	raw, err := c.SignOut(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, `"Signed out"`, string(raw))
}

func TestListVisitors(t *testing.T) {
	var got capture
	srv := newServer(t, http.StatusOK, `[
		{"id": 1, "name": "John", "reason": "Meeting", "meetingWith": "Mark", "arrivalTime": "2024-11-03T09:00:00"},
		{"id": 2, "name": "Dave", "reason": "Courier", "arrivalTime": "2024-11-03T10:00:00Z"}
	]`, &got)
	c := registry.NewClient(srv.URL, config.ShapeCamel, time.Second)

	visitors, err := c.ListVisitors(context.Background())
	require.NoError(t, err)
	require.Len(t, visitors, 2)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/visitors", got.path)
	assert.Equal(t, "Mark", visitors[0].MeetingWith)
	_, ok := visitors[1].ArrivedAt()
	assert.True(t, ok)
}

func TestListEmployees_Forbidden(t *testing.T) {
	srv := newServer(t, http.StatusForbidden, `{"error":"forbidden"}`, nil)
	c := registry.NewClient(srv.URL, config.ShapeCamel, time.Second)

	_, err := c.ListEmployees(context.Background())
	assert.True(t, errors.Is(err, registry.ErrForbidden))
}

func TestListOnsite_GenericFailure(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `upstream down`, nil)
	c := registry.NewClient(srv.URL, config.ShapeCamel, time.Second)

	_, err := c.ListOnsite(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrFailure))
	assert.Equal(t, http.StatusBadGateway, registry.StatusCode(err))
}

func TestListVisitorsOnsite_DecodeError(t *testing.T) {
	srv := newServer(t, http.StatusOK, `not json`, nil)
	c := registry.NewClient(srv.URL, config.ShapeCamel, time.Second)

	_, err := c.ListVisitorsOnsite(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, registry.StatusCode(err))
}

func TestTransportFault(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[]`, nil)
	url := srv.URL
	srv.Close()

	c := registry.NewClient(url, config.ShapeCamel, time.Second)
	_, err := c.ListEmployees(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, registry.ErrFailure))
}
