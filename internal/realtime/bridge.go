// Package realtime bridges a speech-to-speech model session to the tool
// dispatcher. Audio capture and playback belong to the caller.
package realtime

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

const (
	readTimeout  = 120 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Invoker is the tool surface the model may call.
type Invoker interface {
	Tools() []domain.ToolSpec
	Invoke(ctx context.Context, call domain.Call) (domain.Result, error)
}

type Config struct {
	URL     string
	Model   string
	APIKey  string
	Voice   string
	Session string
	Profile config.Profile
}

// Bridge owns one model session for one participant.
type Bridge struct {
	cfg     Config
	invoker Invoker
	logger  *zap.Logger

	ws   *websocket.Conn
	wsMu sync.Mutex

	calls sync.WaitGroup

	// reply collects assistant transcript deltas; only the read loop touches it.
	reply strings.Builder

	// OnUserTranscript receives the transcription of the participant's speech.
	OnUserTranscript func(text string)
	// OnAssistantDelta receives assistant transcript fragments as they stream.
	OnAssistantDelta func(delta string)
	// OnAssistantTranscript receives the complete assistant reply.
	OnAssistantTranscript func(text string)
	OnAudioDelta          func(audioBase64 string)
}

func NewBridge(cfg Config, invoker Invoker, logger *zap.Logger) *Bridge {
	if cfg.Voice == "" {
		cfg.Voice = "alloy"
	}
	return &Bridge{cfg: cfg, invoker: invoker, logger: logger.With(zap.String("session", cfg.Session))}
}

// Connect dials the model endpoint.
func (b *Bridge) Connect(ctx context.Context) error {
	u, err := url.Parse(b.cfg.URL)
	if err != nil {
		return fmt.Errorf("parse realtime url: %w", err)
	}
	q := u.Query()
	q.Set("model", b.cfg.Model)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return fmt.Errorf("connect to realtime api: %w", err)
	}
	ws.SetPingHandler(func(appData string) error {
		b.wsMu.Lock()
		defer b.wsMu.Unlock()
		return ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeTimeout))
	})
	b.ws = ws
	b.logger.Info("realtime session connected", zap.String("model", b.cfg.Model))
	return nil
}

// Start configures the session, seeds the greeting and asks the model to
// speak it.
func (b *Bridge) Start() error {
	p := b.cfg.Profile
	update := sessionUpdate{
		Type: "session.update",
		Session: sessionOptions{
			Modalities:        p.Modalities,
			Instructions:      p.Instructions,
			Voice:             b.cfg.Voice,
			InputAudioFormat:  "pcm16",
			OutputAudioFormat: "pcm16",
			Transcription:     &transcription{Model: "whisper-1"},
			TurnDetection: turnDetection{
				Type:              "server_vad",
				Threshold:         p.TurnDetection.Threshold,
				PrefixPaddingMs:   p.TurnDetection.PrefixPaddingMs,
				SilenceDurationMs: p.TurnDetection.SilenceDurationMs,
			},
			Tools:      toFunctionTools(b.invoker.Tools()),
			ToolChoice: "auto",
		},
	}
	if err := b.send(update); err != nil {
		return fmt.Errorf("configure session: %w", err)
	}

	if p.Greeting != "" {
		greeting := itemCreate{
			Type: "conversation.item.create",
			Item: item{
				Type:    "message",
				Role:    "assistant",
				Content: []itemContent{{Type: "text", Text: p.Greeting}},
			},
		}
		if err := b.send(greeting); err != nil {
			return fmt.Errorf("seed greeting: %w", err)
		}
	}
	return b.send(eventType{Type: "response.create"})
}

// SendAudio appends PCM16 audio to the input buffer.
func (b *Bridge) SendAudio(pcm16 []byte) error {
	return b.send(audioAppend{
		Type:  "input_audio_buffer.append",
		Audio: base64.StdEncoding.EncodeToString(pcm16),
	})
}

// SendText adds a user text turn and requests a response.
func (b *Bridge) SendText(text string) error {
	msg := itemCreate{
		Type: "conversation.item.create",
		Item: item{
			Type:    "message",
			Role:    "user",
			Content: []itemContent{{Type: "input_text", Text: text}},
		},
	}
	if err := b.send(msg); err != nil {
		return err
	}
	return b.send(eventType{Type: "response.create"})
}

// Run reads server events until ctx is done or the socket closes. It waits
// for in-flight tool calls before returning.
func (b *Bridge) Run(ctx context.Context) error {
	if b.ws == nil {
		return errors.New("realtime: not connected")
	}

	done := make(chan struct{})
	defer func() {
		close(done)
		b.calls.Wait()
	}()
	go b.keepAlive(ctx, done)

	for {
		_ = b.ws.SetReadDeadline(time.Now().Add(readTimeout))
		var ev serverEvent
		if err := b.ws.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Info("realtime session closed")
				return nil
			}
			return fmt.Errorf("read realtime event: %w", err)
		}
		b.handle(ctx, ev)
	}
}

func (b *Bridge) handle(ctx context.Context, ev serverEvent) {
	switch ev.Type {
	case "session.created", "session.updated":
		b.logger.Debug("realtime session event", zap.String("type", ev.Type))

	case "conversation.item.input_audio_transcription.completed":
		if b.OnUserTranscript != nil {
			b.OnUserTranscript(ev.Transcript)
		}

	case "response.audio_transcript.delta", "response.text.delta":
		b.reply.WriteString(ev.Delta)
		if b.OnAssistantDelta != nil {
			b.OnAssistantDelta(ev.Delta)
		}

	case "response.audio_transcript.done", "response.text.done":
		text := ev.Transcript
		if text == "" {
			text = ev.Text
		}
		if text == "" {
			text = b.reply.String()
		}
		b.reply.Reset()
		if text != "" && b.OnAssistantTranscript != nil {
			b.OnAssistantTranscript(text)
		}

	case "response.audio.delta":
		if b.OnAudioDelta != nil {
			b.OnAudioDelta(ev.Delta)
		}

	case "response.function_call_arguments.done":
		b.calls.Add(1)
		go func() {
			defer b.calls.Done()
			b.callTool(ctx, ev)
		}()

	case "error":
		if ev.Error != nil {
			b.logger.Error("realtime api error", zap.String("type", ev.Error.Type), zap.String("message", ev.Error.Message))
		}
	}
}

// callTool runs the tool and returns its output to the model. Failures are
// spoken back as "Error: ..." so the conversation can continue.
func (b *Bridge) callTool(ctx context.Context, ev serverEvent) {
	output := b.invoke(ctx, ev)

	reply := itemCreate{
		Type: "conversation.item.create",
		Item: item{Type: "function_call_output", CallID: ev.CallID, Output: output},
	}
	if err := b.send(reply); err != nil {
		b.logger.Error("failed to send tool output", zap.String("tool", ev.Name), zap.Error(err))
		return
	}
	if err := b.send(eventType{Type: "response.create"}); err != nil {
		b.logger.Error("failed to request response", zap.Error(err))
	}
}

func (b *Bridge) invoke(ctx context.Context, ev serverEvent) string {
	args, err := domain.DecodeArguments(ev.Arguments)
	if err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v", err)
	}
	res, err := b.invoker.Invoke(ctx, domain.Call{
		ID:        ev.CallID,
		Session:   b.cfg.Session,
		Tool:      ev.Name,
		Arguments: args,
	})
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return res.Output
}

func (b *Bridge) keepAlive(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = b.Close()
			return
		case <-done:
			return
		case <-ticker.C:
			b.wsMu.Lock()
			err := b.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			b.wsMu.Unlock()
			if err != nil {
				b.logger.Debug("realtime ping failed", zap.Error(err))
				return
			}
		}
	}
}

func (b *Bridge) send(v any) error {
	b.wsMu.Lock()
	defer b.wsMu.Unlock()

	if b.ws == nil {
		return errors.New("realtime: not connected")
	}
	_ = b.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return b.ws.WriteJSON(v)
}

// Close ends the session.
func (b *Bridge) Close() error {
	b.wsMu.Lock()
	defer b.wsMu.Unlock()

	if b.ws == nil {
		return nil
	}
	_ = b.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return b.ws.Close()
}
