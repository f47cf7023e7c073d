package notify

import (
	"context"
	"net/http"
	"time"
)

const (
	adaptiveCardContentType = "application/vnd.microsoft.card.adaptive"
	adaptiveCardSchema      = "http://adaptivecards.io/schemas/adaptive-card.json"
	acknowledgedTextID      = "acknowledgedText"
)

type TeamsClient struct {
	webhookURL string
	httpClient *http.Client
}

func NewTeamsClient(webhookURL string, timeout time.Duration) *TeamsClient {
	return &TeamsClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *TeamsClient) Name() string { return "Teams" }

func (c *TeamsClient) Send(ctx context.Context, msg Message) error {
	return postJSON(ctx, c.httpClient, c.webhookURL, TeamsPayload(msg))
}

type teamsMessage struct {
	Type        string            `json:"type"`
	Attachments []teamsAttachment `json:"attachments"`
}

type teamsAttachment struct {
	ContentType string       `json:"contentType"`
	Content     adaptiveCard `json:"content"`
}

type adaptiveCard struct {
	Schema  string       `json:"$schema"`
	Type    string       `json:"type"`
	Version string       `json:"version"`
	Body    []cardBlock  `json:"body"`
	Actions []cardAction `json:"actions"`
}

type cardBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Size      string `json:"size,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Wrap      bool   `json:"wrap,omitempty"`
	ID        string `json:"id,omitempty"`
	IsVisible *bool  `json:"isVisible,omitempty"`
}

type cardAction struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	TargetElements []string `json:"targetElements"`
}

// TeamsPayload builds the adaptive card: a title, the wrapped message and a
// hidden acknowledgment that the Acknowledge action reveals client-side.
func TeamsPayload(msg Message) any {
	hidden := false
	return teamsMessage{
		Type: "message",
		Attachments: []teamsAttachment{{
			ContentType: adaptiveCardContentType,
			Content: adaptiveCard{
				Schema:  adaptiveCardSchema,
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body: []cardBlock{
					{Type: "TextBlock", Size: "Large", Weight: "Bolder", Text: msg.Title},
					{Type: "TextBlock", Text: msg.Body, Wrap: true},
					{Type: "TextBlock", Text: "Request acknowledged by Reception", Wrap: true, ID: acknowledgedTextID, IsVisible: &hidden},
				},
				Actions: []cardAction{{
					Type:           "Action.ToggleVisibility",
					Title:          "Acknowledge",
					TargetElements: []string{acknowledgedTextID},
				}},
			},
		}},
	}
}
