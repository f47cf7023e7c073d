package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

type stubInvoker struct {
	calls chan domain.Call
	out   string
	err   error
}

func (s *stubInvoker) Tools() []domain.ToolSpec {
	return []domain.ToolSpec{{
		Name:        "sign_out",
		Description: "Sign out a visitor.",
		Params:      []domain.Param{{Name: "visitor_id", Type: domain.ParamInteger, Required: true}},
	}}
}

func (s *stubInvoker) Invoke(_ context.Context, call domain.Call) (domain.Result, error) {
	s.calls <- call
	if s.err != nil {
		return domain.Result{}, s.err
	}
	return domain.Result{CallID: call.ID, Tool: call.Tool, Output: s.out}, nil
}

// fakeModel plays the server side of one session. Its script runs on the
// server goroutine, so it must not call require.
type fakeModel struct {
	t        *testing.T
	received chan map[string]any
	script   func(conn *websocket.Conn)
	header   chan http.Header
}

func (m *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.header <- r.Header.Clone()
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		m.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()
	m.script(conn)
}

func (m *fakeModel) read(conn *websocket.Conn) map[string]any {
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil {
		m.t.Errorf("read client event: %v", err)
	}
	return msg
}

func newProfile() config.Profile {
	return config.Profile{
		Name:         "visitor",
		Instructions: "You are a front desk assistant.",
		Greeting:     "Welcome! How can I assist you today?",
		Modalities:   []string{"audio", "text"},
		TurnDetection: config.TurnDetection{
			Threshold:         0.95,
			PrefixPaddingMs:   200,
			SilenceDurationMs: 500,
		},
	}
}

func startBridge(t *testing.T, model *fakeModel, inv Invoker) (*Bridge, context.CancelFunc) {
	t.Helper()
	srv := httptest.NewServer(model)
	t.Cleanup(srv.Close)

	b := NewBridge(Config{
		URL:     "ws" + strings.TrimPrefix(srv.URL, "http"),
		Model:   "gpt-4o-realtime-preview-2024-12-17",
		APIKey:  "sk-test",
		Session: "lobby-1",
		Profile: newProfile(),
	}, inv, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	require.NoError(t, b.Connect(ctx))
	return b, cancel
}

func TestBridge_StartConfiguresSession(t *testing.T) {
	model := &fakeModel{t: t, header: make(chan http.Header, 1), received: make(chan map[string]any, 3)}
	model.script = func(conn *websocket.Conn) {
		for i := 0; i < 3; i++ {
			model.received <- model.read(conn)
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	b, cancel := startBridge(t, model, &stubInvoker{calls: make(chan domain.Call, 1)})
	defer cancel()

	h := <-model.header
	assert.Equal(t, "Bearer sk-test", h.Get("Authorization"))
	assert.Equal(t, "realtime=v1", h.Get("OpenAI-Beta"))

	require.NoError(t, b.Start())

	update := <-model.received
	assert.Equal(t, "session.update", update["type"])
	session := update["session"].(map[string]any)
	assert.Equal(t, "You are a front desk assistant.", session["instructions"])
	assert.Equal(t, "alloy", session["voice"])
	assert.Equal(t, []any{"audio", "text"}, session["modalities"])
	td := session["turn_detection"].(map[string]any)
	assert.Equal(t, "server_vad", td["type"])
	assert.Equal(t, 0.95, td["threshold"])
	assert.Equal(t, 200.0, td["prefix_padding_ms"])
	assert.Equal(t, 500.0, td["silence_duration_ms"])
	tools := session["tools"].([]any)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "function", tool["type"])
	assert.Equal(t, "sign_out", tool["name"])

	greeting := <-model.received
	assert.Equal(t, "conversation.item.create", greeting["type"])
	it := greeting["item"].(map[string]any)
	assert.Equal(t, "assistant", it["role"])
	content := it["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "Welcome! How can I assist you today?", content["text"])

	create := <-model.received
	assert.Equal(t, "response.create", create["type"])

	assert.NoError(t, b.Run(context.Background()))
}

func TestBridge_FunctionCallRoundTrip(t *testing.T) {
	replies := make(chan map[string]any, 2)
	model := &fakeModel{t: t, header: make(chan http.Header, 1)}
	model.script = func(conn *websocket.Conn) {
		assert.NoError(t, conn.WriteJSON(map[string]any{
			"type":      "response.function_call_arguments.done",
			"name":      "sign_out",
			"call_id":   "call_123",
			"arguments": `{"visitor_id":42}`,
		}))
		replies <- model.read(conn)
		replies <- model.read(conn)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	inv := &stubInvoker{calls: make(chan domain.Call, 1), out: "Visitor 42 has been signed out successfully."}
	b, cancel := startBridge(t, model, inv)
	defer cancel()

	require.NoError(t, b.Run(context.Background()))

	call := <-inv.calls
	assert.Equal(t, "call_123", call.ID)
	assert.Equal(t, "lobby-1", call.Session)
	assert.Equal(t, "sign_out", call.Tool)
	assert.Equal(t, 42.0, call.Arguments["visitor_id"])

	out := <-replies
	assert.Equal(t, "conversation.item.create", out["type"])
	it := out["item"].(map[string]any)
	assert.Equal(t, "function_call_output", it["type"])
	assert.Equal(t, "call_123", it["call_id"])
	assert.Equal(t, "Visitor 42 has been signed out successfully.", it["output"])

	next := <-replies
	assert.Equal(t, "response.create", next["type"])
}

func TestBridge_InvokeErrorIsSpoken(t *testing.T) {
	replies := make(chan map[string]any, 2)
	model := &fakeModel{t: t, header: make(chan http.Header, 1)}
	model.script = func(conn *websocket.Conn) {
		assert.NoError(t, conn.WriteJSON(map[string]any{
			"type":      "response.function_call_arguments.done",
			"name":      "sign_out",
			"call_id":   "call_9",
			"arguments": `{"visitor_id":1}`,
		}))
		replies <- model.read(conn)
		replies <- model.read(conn)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	inv := &stubInvoker{calls: make(chan domain.Call, 1), err: errors.New("connection refused")}
	b, cancel := startBridge(t, model, inv)
	defer cancel()

	require.NoError(t, b.Run(context.Background()))
	out := <-replies
	assert.Equal(t, "Error: connection refused", out["item"].(map[string]any)["output"])
}

func TestBridge_BadArgumentsNeverInvoke(t *testing.T) {
	replies := make(chan map[string]any, 2)
	model := &fakeModel{t: t, header: make(chan http.Header, 1)}
	model.script = func(conn *websocket.Conn) {
		assert.NoError(t, conn.WriteJSON(map[string]any{
			"type":      "response.function_call_arguments.done",
			"name":      "sign_out",
			"call_id":   "call_bad",
			"arguments": `{"visitor_id":`,
		}))
		replies <- model.read(conn)
		replies <- model.read(conn)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	inv := &stubInvoker{calls: make(chan domain.Call, 1)}
	b, cancel := startBridge(t, model, inv)
	defer cancel()

	require.NoError(t, b.Run(context.Background()))
	out := <-replies
	assert.True(t, strings.HasPrefix(out["item"].(map[string]any)["output"].(string), "Error: invalid arguments"))
	assert.Empty(t, inv.calls)
}

func TestBridge_TranscriptCallbacks(t *testing.T) {
	model := &fakeModel{t: t, header: make(chan http.Header, 1)}
	model.script = func(conn *websocket.Conn) {
		_ = conn.WriteJSON(map[string]any{"type": "conversation.item.input_audio_transcription.completed", "transcript": "I need help"})
		_ = conn.WriteJSON(map[string]any{"type": "response.audio_transcript.delta", "delta": "Sure, "})
		_ = conn.WriteJSON(map[string]any{"type": "response.audio_transcript.delta", "delta": "one moment."})
		_ = conn.WriteJSON(map[string]any{"type": "response.audio_transcript.done", "transcript": "Sure, one moment."})
		// Text replies without a full text field fall back to the streamed deltas.
		_ = conn.WriteJSON(map[string]any{"type": "response.text.delta", "delta": "Welcome"})
		_ = conn.WriteJSON(map[string]any{"type": "response.text.done"})
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	b, cancel := startBridge(t, model, &stubInvoker{calls: make(chan domain.Call, 1)})
	defer cancel()

	var got, deltas []string
	b.OnUserTranscript = func(text string) { got = append(got, "user: "+text) }
	b.OnAssistantDelta = func(delta string) { deltas = append(deltas, delta) }
	b.OnAssistantTranscript = func(text string) { got = append(got, "assistant: "+text) }

	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, []string{"user: I need help", "assistant: Sure, one moment.", "assistant: Welcome"}, got)
	assert.Equal(t, []string{"Sure, ", "one moment.", "Welcome"}, deltas)
}

func TestBridge_RunStopsOnContextCancel(t *testing.T) {
	model := &fakeModel{t: t, header: make(chan http.Header, 1)}
	model.script = func(conn *websocket.Conn) {
		// Block until the client goes away.
		_, _, _ = conn.ReadMessage()
	}
	b, cancel := startBridge(t, model, &stubInvoker{calls: make(chan domain.Call, 1)})
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- b.Run(ctx) }()
	stop()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBridge_RunWithoutConnect(t *testing.T) {
	b := NewBridge(Config{}, &stubInvoker{}, zap.NewNop())
	assert.Error(t, b.Run(context.Background()))
}
