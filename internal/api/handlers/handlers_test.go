package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/api/middleware"
	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
	"github.com/Harshitk-cp/frontdesk/internal/service"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Tools() []domain.ToolSpec {
	return m.Called().Get(0).([]domain.ToolSpec)
}

func (m *MockDispatcher) Invoke(ctx context.Context, call domain.Call) (domain.Result, error) {
	args := m.Called(ctx, call)
	return args.Get(0).(domain.Result), args.Error(1)
}

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) HandleUtterance(ctx context.Context, session, text string) (service.Reply, error) {
	args := m.Called(ctx, session, text)
	return args.Get(0).(service.Reply), args.Error(1)
}

type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Record(ctx context.Context, e *domain.AuditEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockAuditStore) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

type countingRecorder struct {
	seen []string
}

func (c *countingRecorder) ToolOutcome(tool, outcome string) {
	c.seen = append(c.seen, tool+"="+outcome)
}

var signOutSpec = domain.ToolSpec{
	Name:        "sign_out",
	Description: "Sign out a visitor.",
	Params:      []domain.Param{{Name: "visitor_id", Type: domain.ParamInteger, Required: true}},
}

func toolRouter(h *ToolHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/tools", h.List)
	r.Post("/v1/tools/{name}", h.Invoke)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.7:5123"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestToolHandler_List(t *testing.T) {
	d := new(MockDispatcher)
	d.On("Tools").Return([]domain.ToolSpec{signOutSpec})

	rec := do(t, toolRouter(NewToolHandler(d, nil)), http.MethodGet, "/v1/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tools []struct {
			Name       string         `json:"name"`
			Parameters map[string]any `json:"parameters"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tools, 1)
	assert.Equal(t, "sign_out", body.Tools[0].Name)
	assert.Equal(t, []any{"visitor_id"}, body.Tools[0].Parameters["required"])
}

func TestToolHandler_Invoke(t *testing.T) {
	d := new(MockDispatcher)
	d.On("Invoke", mock.Anything, mock.MatchedBy(func(c domain.Call) bool {
		return c.Tool == "sign_out" && c.Session == "http:10.0.0.7" && c.Arguments["visitor_id"] == json.Number("42")
	})).Return(domain.Result{CallID: "c1", Tool: "sign_out", Output: "Visitor 42 has been signed out successfully.", Outcome: domain.OutcomeSuccess}, nil)
	rec := &countingRecorder{}

	resp := do(t, toolRouter(NewToolHandler(d, rec)), http.MethodPost, "/v1/tools/sign_out",
		`{"session":"lobby-1","arguments":{"visitor_id":42}}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var res domain.Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
	assert.Equal(t, "c1", res.CallID)
	assert.Equal(t, "Visitor 42 has been signed out successfully.", res.Output)
	assert.Equal(t, []string{"sign_out=success"}, rec.seen)
}

func TestToolHandler_InvokeDefaultsSessionToClient(t *testing.T) {
	d := new(MockDispatcher)
	d.On("Invoke", mock.Anything, mock.MatchedBy(func(c domain.Call) bool {
		return c.Session == "http:10.0.0.7"
	})).Return(domain.Result{Tool: "general_enquiry", Outcome: domain.OutcomeSuccess}, nil)

	resp := do(t, toolRouter(NewToolHandler(d, nil)), http.MethodPost, "/v1/tools/general_enquiry", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	d.AssertExpectations(t)
}

func TestToolHandler_AnonymousCallsShareOneSubject(t *testing.T) {
	var sessions []string
	d := new(MockDispatcher)
	d.On("Invoke", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sessions = append(sessions, args.Get(1).(domain.Call).Session)
	}).Return(domain.Result{Tool: "list_onsite", Outcome: domain.OutcomeDenied}, nil)
	h := toolRouter(NewToolHandler(d, nil))

	for i, addr := range []string{"10.0.0.7:5123", "10.0.0.7:5124", "10.0.0.7:6000"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/tools/list_onsite",
			strings.NewReader(fmt.Sprintf(`{"session":"s%d","arguments":{"pin":"0000"}}`, i)))
		req.RemoteAddr = addr
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, []string{"http:10.0.0.7", "http:10.0.0.7", "http:10.0.0.7"}, sessions)
}

func TestToolHandler_AuthenticatedSessionsAreScopedToKey(t *testing.T) {
	var sessions []string
	d := new(MockDispatcher)
	d.On("Invoke", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sessions = append(sessions, args.Get(1).(domain.Call).Session)
	}).Return(domain.Result{Tool: "list_onsite", Outcome: domain.OutcomeSuccess}, nil)
	h := middleware.RequestID(zap.NewNop())(middleware.APIKeyAuth("secret")(toolRouter(NewToolHandler(d, nil))))

	for _, body := range []string{`{"session":"lobby-1"}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/tools/list_onsite", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, sessions, 2)
	assert.True(t, strings.HasPrefix(sessions[0], "key:"))
	assert.True(t, strings.HasSuffix(sessions[0], ":lobby-1"))
	assert.Equal(t, strings.TrimSuffix(sessions[0], ":lobby-1"), sessions[1])
}

func TestToolHandler_InvokeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown tool", fmt.Errorf("%w: nope", service.ErrUnknownTool), http.StatusNotFound},
		{"bad args", fmt.Errorf("%w: visitor_id is required", service.ErrInvalidArgs), http.StatusBadRequest},
		{"transport fault", errors.New("dial tcp: connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := new(MockDispatcher)
			d.On("Invoke", mock.Anything, mock.Anything).Return(domain.Result{}, tt.err)

			resp := do(t, toolRouter(NewToolHandler(d, nil)), http.MethodPost, "/v1/tools/sign_out", `{}`)
			assert.Equal(t, tt.want, resp.Code)
			assert.NotContains(t, resp.Body.String(), "connection refused")
		})
	}
}

func TestToolHandler_InvalidBody(t *testing.T) {
	d := new(MockDispatcher)
	resp := do(t, toolRouter(NewToolHandler(d, nil)), http.MethodPost, "/v1/tools/sign_out", `{"arguments":`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	d.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestUtteranceHandler(t *testing.T) {
	a := new(MockAssistant)
	a.On("HandleUtterance", mock.Anything, "kiosk", "I have a meeting").Return(service.Reply{
		Intent:  domain.Intent{Name: domain.IntentArriveMeeting},
		Output:  "Who is the visitor?",
		Outcome: domain.OutcomePrompt,
	}, nil)
	h := NewUtteranceHandler(a)

	resp := do(t, http.HandlerFunc(h.Handle), http.MethodPost, "/v1/utterances", `{"session":"kiosk","text":"I have a meeting"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	var reply map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reply))
	assert.Equal(t, "Who is the visitor?", reply["output"])
	assert.Equal(t, "arrive_meeting", reply["intent"].(map[string]any)["intent"])

	resp = do(t, http.HandlerFunc(h.Handle), http.MethodPost, "/v1/utterances", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUtteranceHandler_Failure(t *testing.T) {
	a := new(MockAssistant)
	a.On("HandleUtterance", mock.Anything, mock.Anything, mock.Anything).Return(service.Reply{}, errors.New("registry down"))

	resp := do(t, http.HandlerFunc(NewUtteranceHandler(a).Handle), http.MethodPost, "/v1/utterances", `{"text":"sign out 4"}`)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestSessionHandler(t *testing.T) {
	d := new(MockDispatcher)
	d.On("Tools").Return([]domain.ToolSpec{signOutSpec})
	profile := config.Profile{
		Name:          "visitor",
		Instructions:  "Be helpful.",
		Greeting:      "Welcome! How can I assist you today?",
		Modalities:    []string{"audio", "text"},
		TurnDetection: config.TurnDetection{Threshold: 0.95, PrefixPaddingMs: 200, SilenceDurationMs: 500},
	}

	resp := do(t, http.HandlerFunc(NewSessionHandler(profile, "alloy", d).Get), http.MethodGet, "/v1/session", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "visitor", body.Profile)
	assert.Equal(t, "Welcome! How can I assist you today?", body.Greeting)
	assert.Equal(t, "server_vad", body.TurnDetection.Type)
	assert.Equal(t, 0.95, body.TurnDetection.Threshold)
	require.Len(t, body.Tools, 1)
	assert.Equal(t, "sign_out", body.Tools[0].Name)
}

func TestAuditHandler(t *testing.T) {
	s := new(MockAuditStore)
	s.On("ListRecent", mock.Anything, 50).Return([]domain.AuditEvent{{Kind: domain.AuditKindPIN, Outcome: domain.OutcomeDenied}}, nil)
	s.On("ListRecent", mock.Anything, 5).Return(nil, errors.New("db down"))
	h := http.HandlerFunc(NewAuditHandler(s).List)

	resp := do(t, h, http.MethodGet, "/v1/audit", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"outcome":"denied"`)

	resp = do(t, h, http.MethodGet, "/v1/audit?limit=5", "")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	resp = do(t, h, http.MethodGet, "/v1/audit?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
