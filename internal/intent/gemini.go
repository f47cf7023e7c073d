package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

const classifyPrompt = `You route front desk requests for a visitor management kiosk.
Classify the visitor's words into exactly one intent:
- "arrive_meeting": a visitor arriving to meet an employee
- "arrive_courier": a courier or delivery arriving
- "arrive_contractor": a contractor arriving on behalf of a company
- "sign_out": a visitor leaving, usually with a visitor id
- "list_employees": asking for the employee list
- "list_onsite": asking who is currently on site
- "general_enquiry": anything that needs a human at reception
- "unknown": none of the above

Respond ONLY with a JSON object. No markdown, no explanation. Example:
{"intent":"arrive_meeting","visitor":"John","employee":"Mark","company":"","visitor_id":"","pin":""}

Leave a field empty when it was not said. Write numbers as digits.

Visitor said:
%s`

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
	model  string
}

// NewGenaiGenerator builds a Generator backed by the Gemini API.
func NewGenaiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &genaiGenerator{client: client, model: model}, nil
}

func (g *genaiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

type modelIntent struct {
	Intent    string          `json:"intent"`
	Visitor   string          `json:"visitor"`
	Employee  string          `json:"employee"`
	Company   string          `json:"company"`
	VisitorID json.RawMessage `json:"visitor_id"`
	PIN       json.RawMessage `json:"pin"`
}

// ModelClassifier asks a hosted model for the intent and falls back to the
// rules whenever the model errors or answers with something unusable.
type ModelClassifier struct {
	gen      Generator
	fallback *Rules
	logger   *zap.Logger
}

func NewModelClassifier(gen Generator, logger *zap.Logger) *ModelClassifier {
	return &ModelClassifier{gen: gen, fallback: NewRules(), logger: logger}
}

func (c *ModelClassifier) Classify(ctx context.Context, text string) (domain.Intent, error) {
	raw, err := c.gen.Generate(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		c.logger.Warn("model classification failed, using rules", zap.Error(err))
		return c.fallback.Extract(text), nil
	}

	in, err := parseModelIntent(raw)
	if err != nil {
		c.logger.Warn("model returned unusable intent, using rules", zap.Error(err))
		return c.fallback.Extract(text), nil
	}

	// The model tends to drop spelled-out PINs; the rules read them reliably.
	if in.Slots.PIN == "" && needsPIN(in.Name) {
		in.Slots.PIN = SpokenPIN(text)
	}
	return in, nil
}

func needsPIN(name domain.IntentName) bool {
	return name == domain.IntentListEmployees || name == domain.IntentListOnsite
}

func parseModelIntent(raw string) (domain.Intent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var m modelIntent
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return domain.Intent{}, fmt.Errorf("decode model intent: %w", err)
	}
	if !domain.ValidIntent(m.Intent) {
		return domain.Intent{}, fmt.Errorf("unknown intent %q", m.Intent)
	}
	return domain.Intent{
		Name: domain.IntentName(m.Intent),
		Slots: domain.Slots{
			Visitor:   strings.TrimSpace(m.Visitor),
			Employee:  strings.TrimSpace(m.Employee),
			Company:   strings.TrimSpace(m.Company),
			VisitorID: scalarString(m.VisitorID),
			PIN:       scalarString(m.PIN),
		},
	}, nil
}

// scalarString accepts either a JSON string or a JSON number.
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
